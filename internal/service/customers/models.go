package customers

// Input данные клиента для создания и обновления
type Input struct {
	FullName string
	Phone    *string
	Email    *string
}
