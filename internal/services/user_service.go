package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mwhitt/warbler-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Login(email, password string) (models.User, error)
	Register(email, password, username, name string) (models.User, error)
	GetUserByID(id int64) (models.User, error)
}

// UserService provides registration and credential verification.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// Login verifies a user's credentials. An unknown email and a wrong password
// both return ErrInvalidCredentials so callers cannot probe which accounts
// exist.
func (s *UserService) Login(email, password string) (models.User, error) {
	if email == "" || password == "" {
		return models.User{}, ErrMissingFields
	}

	user, err := s.getUserByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Hash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.Hash = ""
	return user, nil
}

// Register creates a new user account. The email uniqueness check runs before
// the username check; when both collide the caller sees ErrEmailTaken. The
// store's UNIQUE indexes remain the authoritative arbiter: a concurrent
// duplicate that slips past the pre-checks fails on insert and is mapped back
// to the same errors.
func (s *UserService) Register(email, password, username, name string) (models.User, error) {
	if email == "" || password == "" || username == "" || name == "" {
		return models.User{}, ErrMissingFields
	}

	var exists int
	err := s.db.QueryRow("SELECT 1 FROM users WHERE email = ?", email).Scan(&exists)
	if err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return models.User{}, err
	}

	err = s.db.QueryRow("SELECT 1 FROM users WHERE username = ?", username).Scan(&exists)
	if err == nil {
		return models.User{}, ErrUsernameTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	stmt, err := s.db.Prepare("INSERT INTO users(email, hash, username, name, role) VALUES(?, ?, ?, ?, 'user')")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	res, err := stmt.Exec(email, string(hash), username, name)
	if err != nil {
		if taken := translateUniqueViolation(err); taken != nil {
			return models.User{}, taken
		}
		return models.User{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}

	// Re-read the inserted row so the caller gets the store-assigned fields.
	return s.GetUserByID(id)
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id int64) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, email, username, name, role FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.Name, &user.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUnknownUser
		}
		return models.User{}, err
	}
	return user, nil
}

// getUserByEmail retrieves a single user by their email, including the
// password hash.
func (s *UserService) getUserByEmail(email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, email, hash, username, name, role FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Email, &user.Hash, &user.Username, &user.Name, &user.Role)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// translateUniqueViolation maps a UNIQUE constraint failure on the users
// table to the matching registration error. Email is checked first to keep
// the same error ordering as the pre-checks.
func translateUniqueViolation(err error) error {
	var liteErr *sqlite.Error
	if !errors.As(err, &liteErr) {
		return nil
	}
	if liteErr.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE && liteErr.Code() != sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
		return nil
	}
	if strings.Contains(liteErr.Error(), "users.email") {
		return ErrEmailTaken
	}
	if strings.Contains(liteErr.Error(), "users.username") {
		return ErrUsernameTaken
	}
	return nil
}
