package accounts

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials means the identifier/password pair matches no admin and no user.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotVerified means the credentials are correct but an admin has not approved the account.
	ErrNotVerified = errors.New("account not verified by admin")

	// ErrDuplicateAdmin is returned when an admin username is already taken.
	ErrDuplicateAdmin = errors.New("admin already exists")
)

// Store is the in-memory registry of users, admins, the review queues and the
// current session. Records are replaced on write and every read returns copies.
type Store struct {
	mu       sync.RWMutex
	users    []UserAccount
	index    map[string]int
	pending  []string
	verified []string
	admins   []AdminAccount
	session  *Session
	now      func() time.Time
}

// NewStore builds an empty store.
func NewStore() *Store {
	return &Store{
		index: make(map[string]int),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// RegisterStudent adds a student awaiting verification and queues it for review.
func (s *Store) RegisterStudent(in StudentRegistration) UserAccount {
	return s.register(UserAccount{
		FullName:       in.FullName,
		Phone:          in.Phone,
		Email:          in.Email,
		Password:       in.Password,
		StudentIDImage: in.StudentIDImage,
		Role:           RoleStudent,
	})
}

// RegisterStudentDriver adds a student-driver awaiting verification and queues it for review.
func (s *Store) RegisterStudentDriver(in DriverRegistration) UserAccount {
	return s.register(UserAccount{
		FullName:           in.FullName,
		Phone:              in.Phone,
		Email:              in.Email,
		Password:           in.Password,
		StudentIDImage:     in.StudentIDImage,
		DriverLicenseImage: in.DriverLicenseImage,
		VehicleType:        in.VehicleType,
		PlateNumber:        in.PlateNumber,
		Role:               RoleDriver,
	})
}

func (s *Store) register(user UserAccount) UserAccount {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	user.ID = uuid.NewString()
	user.Verified = false
	user.Status = StatusPending
	user.CreatedAt = now
	user.UpdatedAt = now

	s.insertLocked(user)
	return user
}

func (s *Store) insertLocked(user UserAccount) {
	s.index[user.ID] = len(s.users)
	s.users = append(s.users, user)
	switch user.Status {
	case StatusPending:
		s.pending = append(s.pending, user.ID)
	case StatusApproved:
		s.verified = append(s.verified, user.ID)
	}
}

// VerifyUser records an admin decision. The account leaves the pending queue
// either way and joins the verified set only when approved. It reports whether
// the id matched an account; unknown ids change nothing.
func (s *Store) VerifyUser(userID string, approved bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[userID]
	if !ok {
		return false
	}

	now := s.now()
	user := s.users[i]
	user.Verified = approved
	user.Status = StatusRejected
	if approved {
		user.Status = StatusApproved
	}
	user.ReviewedAt = &now
	user.UpdatedAt = now
	s.users[i] = user

	s.pending = slices.DeleteFunc(s.pending, func(id string) bool { return id == userID })
	if approved {
		if !slices.Contains(s.verified, userID) {
			s.verified = append(s.verified, userID)
		}
	} else {
		s.verified = slices.DeleteFunc(s.verified, func(id string) bool { return id == userID })
	}

	s.refreshSessionLocked(user)
	return true
}

// Login authenticates admins by username first, then users by email. A
// successful login replaces any existing session.
func (s *Store) Login(creds Credentials) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, admin := range s.admins {
		if admin.Username == creds.Identifier && admin.Password == creds.Password {
			session := Session{
				ID:          uuid.NewString(),
				Role:        RoleAdmin,
				PrincipalID: admin.ID,
				Username:    admin.Username,
				StartedAt:   s.now(),
			}
			s.session = &session
			return session, nil
		}
	}

	for _, user := range s.users {
		if user.Email != creds.Identifier || user.Password != creds.Password {
			continue
		}
		if !user.Verified {
			return Session{}, ErrNotVerified
		}
		session := Session{
			ID:          uuid.NewString(),
			Role:        user.Role,
			PrincipalID: user.ID,
			User:        user,
			StartedAt:   s.now(),
		}
		s.session = &session
		return session, nil
	}

	return Session{}, ErrInvalidCredentials
}

// Logout clears the current session.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
}

// CurrentSession returns the active session, if any.
func (s *Store) CurrentSession() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return Session{}, false
	}
	return *s.session, true
}

// UpdateUserProfile merges the patch into the account and refreshes the
// session snapshot when it belongs to that account. Unknown ids change nothing.
func (s *Store) UpdateUserProfile(userID string, patch ProfilePatch) (UserAccount, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[userID]
	if !ok {
		return UserAccount{}, false
	}

	user := s.users[i]
	apply(&user.FullName, patch.FullName)
	apply(&user.Phone, patch.Phone)
	apply(&user.Email, patch.Email)
	apply(&user.Password, patch.Password)
	apply(&user.StudentIDImage, patch.StudentIDImage)
	if user.IsDriver() {
		apply(&user.DriverLicenseImage, patch.DriverLicenseImage)
		apply(&user.VehicleType, patch.VehicleType)
		apply(&user.PlateNumber, patch.PlateNumber)
	}
	user.UpdatedAt = s.now()
	s.users[i] = user

	s.refreshSessionLocked(user)
	return user, true
}

// CreateAdmin adds an admin unless the username is already taken.
func (s *Store) CreateAdmin(username, password string) (AdminAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasAdminLocked(username) {
		return AdminAccount{}, ErrDuplicateAdmin
	}

	admin := AdminAccount{
		ID:        "admin-" + uuid.NewString(),
		Username:  username,
		Password:  password,
		CreatedAt: s.now(),
	}
	s.admins = append(s.admins, admin)
	return admin, nil
}

// User looks up an account by id.
func (s *Store) User(userID string) (UserAccount, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[userID]
	if !ok {
		return UserAccount{}, false
	}
	return s.users[i], true
}

// Users returns every account in registration order.
func (s *Store) Users() []UserAccount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]UserAccount, len(s.users))
	copy(out, s.users)
	return out
}

// Pending returns the accounts awaiting review, oldest first.
func (s *Store) Pending() []UserAccount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookupLocked(s.pending)
}

// Verified returns the approved accounts in approval order.
func (s *Store) Verified() []UserAccount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookupLocked(s.verified)
}

// Admins returns every admin account.
func (s *Store) Admins() []AdminAccount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AdminAccount, len(s.admins))
	copy(out, s.admins)
	return out
}

// Stats counts accounts per verification status.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := Stats{
		Users:         len(s.users),
		Admins:        len(s.admins),
		SessionActive: s.session != nil,
	}
	for _, user := range s.users {
		switch user.Status {
		case StatusPending:
			stats.Pending++
		case StatusApproved:
			stats.Approved++
		case StatusRejected:
			stats.Rejected++
		}
	}
	return stats
}

func (s *Store) lookupLocked(ids []string) []UserAccount {
	out := make([]UserAccount, 0, len(ids))
	for _, id := range ids {
		if i, ok := s.index[id]; ok {
			out = append(out, s.users[i])
		}
	}
	return out
}

func (s *Store) refreshSessionLocked(user UserAccount) {
	if s.session == nil || s.session.IsAdmin() || s.session.PrincipalID != user.ID {
		return
	}
	refreshed := *s.session
	refreshed.User = user
	s.session = &refreshed
}

func apply(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
