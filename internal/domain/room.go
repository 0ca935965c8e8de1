package domain

type Room struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	MaxCapacity int32  `json:"maxCapacity"`
	IsActive    bool   `json:"isActive"`
}
