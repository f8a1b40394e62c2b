package domain

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type CreateRoomCommand struct {
	Name         string   `validate:"required"`
	Kind         RoomKind `validate:"required,oneof=direct group"`
	Participants []UserID `validate:"required,min=1,dive,required"`
	CreatedBy    UserID   `validate:"required"`
}

func (c CreateRoomCommand) Validate() error {
	return validate.Struct(c)
}

type SendMessageCommand struct {
	RoomID   RoomID      `validate:"required"`
	SenderID UserID      `validate:"required"`
	Content  string      `validate:"required"`
	Kind     MessageKind `validate:"omitempty,oneof=text image file"`
}

func (c SendMessageCommand) Validate() error {
	return validate.Struct(c)
}

type ListMessagesCommand struct {
	RoomID RoomID `validate:"required"`
	// Limit caps the number of returned messages, most recent first.
	// Zero falls back to the service default.
	Limit int `validate:"omitempty,min=1"`
}

func (c ListMessagesCommand) Validate() error {
	return validate.Struct(c)
}

type MarkReadCommand struct {
	RoomID RoomID `validate:"required"`
	UserID UserID `validate:"required"`
}

func (c MarkReadCommand) Validate() error {
	return validate.Struct(c)
}
