package user

import (
	"github.com/SergeyKozhin/planner-calendar/internal/model"
)

type userDTO struct {
	ID          int64  `db:"id"`
	FullName    string `db:"full_name"`
	Email       string `db:"email"`
	PhoneNumber string `db:"phone_number"`
	Photo       string `db:"photo"`
}

func mapToUser(dto *userDTO) *model.User {
	return &model.User{
		ID: dto.ID,
		UserCreate: model.UserCreate{
			FullName:    dto.FullName,
			Email:       dto.Email,
			PhoneNumber: dto.PhoneNumber,
			Photo:       dto.Photo,
		},
	}
}
