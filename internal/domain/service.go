package domain

import "time"

// ServiceCategory категория услуги
type ServiceCategory string

const (
	CategoryWellness ServiceCategory = "benessere"
	CategoryBeauty   ServiceCategory = "bellezza"
	CategoryVitality ServiceCategory = "vitalita"

	DefaultCategory = CategoryWellness
)

// Categories все допустимые категории
var Categories = []ServiceCategory{CategoryWellness, CategoryBeauty, CategoryVitality}

// ParseCategory возвращает категорию; пустая строка даёт категорию по умолчанию
func ParseCategory(s string) (ServiceCategory, bool) {
	if s == "" {
		return DefaultCategory, true
	}
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// categoryLabels названия категорий для витрины
var categoryLabels = map[ServiceCategory]string{
	CategoryWellness: "Benessere",
	CategoryBeauty:   "Bellezza",
	CategoryVitality: "Vitalità",
}

// Label название категории для клиента
func (c ServiceCategory) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Service услуга салона. Длительность определяет длину слота в расписании.
type Service struct {
	ID              int64
	Name            string
	Description     *string
	DurationMinutes int
	PriceCents      int64
	ImageURL        *string
	Active          bool
	Category        ServiceCategory
	CreatedAt       time.Time
}

// ServiceFilter фильтр выборки услуг
type ServiceFilter struct {
	ActiveOnly bool
	Category   *ServiceCategory
}
