package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Tasks() TaskRepository
	Assignments() AssignmentRepository
	Withdrawals() WithdrawalRepository
	Announcements() AnnouncementRepository
}
