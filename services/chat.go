package services

// Chat bundles the whole service surface a transport or embedding
// application consumes. Purely a grouping, no logic of its own.
type Chat struct {
	Users     IUserService
	Rooms     IRoomService
	Directory IDirectoryService
	Read      IReadService
	Messages  IMessageService
}

func NewChat(users IUserService, rooms IRoomService, directory IDirectoryService,
	read IReadService, messages IMessageService) *Chat {
	return &Chat{
		Users:     users,
		Rooms:     rooms,
		Directory: directory,
		Read:      read,
		Messages:  messages,
	}
}
