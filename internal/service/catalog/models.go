package catalog

// Input данные услуги из админки. Цена в евро, хранится в центах.
type Input struct {
	Name            string
	Description     *string
	DurationMinutes int
	Price           float64
	ImageURL        *string
	Active          *bool
	Category        string
}
