package submit_request

// Request модель заявки с публичного сайта
type Request struct {
	FullName  string  `validate:"required,max=200"`
	Phone     *string `validate:"omitempty,max=40"`
	Email     *string `validate:"omitempty,email,max=200"`
	ServiceID int64   `validate:"gt=0" field:"serviceId"`
	Start     string  `validate:"required"`
	End       string  `validate:"required"`
	Note      *string `validate:"omitempty,max=1000"`
}

// Response модель ответа
type Response struct {
	ID              int64
	Status          string
	ConfirmationURL string
}
