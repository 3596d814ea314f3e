package domain

// Product is the catalog record joined with its stock count. Products and
// stock live in separate tables and are joined on read.
type Product struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Count       int     `json:"count"`
}
