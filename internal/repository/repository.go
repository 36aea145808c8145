package repository

// SessionRepository defines operations on the locally persisted session token
type SessionRepository interface {
	// Token returns the stored token, or "" when none is saved.
	Token() (string, error)
	Save(token string) error
	Clear() error
}

// Repository combines all local stores
type Repository interface {
	Session() SessionRepository
	Close() error
}
