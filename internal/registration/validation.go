package registration

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

const minPasswordLength = 6

// ValidateStringNotEmpty validates that a string has non-blank content.
func ValidateStringNotEmpty(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateEmail validates a bare address such as ann@school.edu.
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("email is invalid")
	}
	return nil
}

// ValidatePassword checks length and that the confirmation matches.
func ValidatePassword(password, confirm string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if confirm != "" && confirm != password {
		return errors.New("passwords do not match")
	}
	return nil
}

func validateStudent(req studentRequest) error {
	checks := []error{
		ValidateStringNotEmpty(req.FullName, "full_name"),
		ValidateStringNotEmpty(req.Phone, "phone"),
		ValidateStringNotEmpty(req.Email, "email"),
		ValidateStringNotEmpty(req.StudentIDImage, "student_id_image"),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	if err := ValidateEmail(req.Email); err != nil {
		return err
	}
	return ValidatePassword(req.Password, req.ConfirmPassword)
}

func validateDriver(req driverRequest) error {
	if err := validateStudent(req.studentRequest); err != nil {
		return err
	}
	for _, err := range []error{
		ValidateStringNotEmpty(req.DriverLicenseImage, "driver_license_image"),
		ValidateStringNotEmpty(req.VehicleType, "vehicle_type"),
		ValidateStringNotEmpty(req.PlateNumber, "plate_number"),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}
