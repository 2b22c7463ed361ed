package accounts

import "github.com/google/uuid"

const placeholderImageURL = "https://via.placeholder.com/400x300?text="

// Seed holds fixture accounts loaded at startup.
type Seed struct {
	Users  []UserAccount
	Admins []AdminAccount
}

// DemoSeed returns the demo fixtures: one approved student, one approved
// driver and the default admin. Credentials are hardcoded and plaintext.
func DemoSeed() Seed {
	return Seed{
		Users: []UserAccount{
			{
				ID:             "student-demo",
				FullName:       "John Student",
				Phone:          "0912345678",
				Email:          "student@test.com",
				Password:       "demo1234",
				Role:           RoleStudent,
				Verified:       true,
				StudentIDImage: placeholderImageURL + "Student+ID",
			},
			{
				ID:                 "driver-demo",
				FullName:           "Jane Driver",
				Phone:              "0987654321",
				Email:              "driver@test.com",
				Password:           "demo1234",
				Role:               RoleDriver,
				Verified:           true,
				StudentIDImage:     placeholderImageURL + "Student+ID",
				DriverLicenseImage: placeholderImageURL + "Driver+License",
				VehicleType:        "Toyota Vios",
				PlateNumber:        "ABC-1234",
			},
		},
		Admins: []AdminAccount{
			{Username: "admin123", Password: "password123"},
		},
	}
}

// Seed loads fixture accounts. Users keep their ids when set; the Verified
// flag decides whether a user starts approved or in the pending queue.
// Admins whose username already exists are skipped.
func (s *Store) Seed(seed Seed) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, user := range seed.Users {
		if user.ID == "" {
			user.ID = uuid.NewString()
		}
		if _, exists := s.index[user.ID]; exists {
			continue
		}
		user.Status = StatusPending
		if user.Verified {
			user.Status = StatusApproved
		}
		if user.CreatedAt.IsZero() {
			user.CreatedAt = now
		}
		user.UpdatedAt = user.CreatedAt
		s.insertLocked(user)
	}

	for _, admin := range seed.Admins {
		if s.hasAdminLocked(admin.Username) {
			continue
		}
		if admin.ID == "" {
			admin.ID = "admin-" + uuid.NewString()
		}
		if admin.CreatedAt.IsZero() {
			admin.CreatedAt = now
		}
		s.admins = append(s.admins, admin)
	}
}

func (s *Store) hasAdminLocked(username string) bool {
	for _, admin := range s.admins {
		if admin.Username == username {
			return true
		}
	}
	return false
}
