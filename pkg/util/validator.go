package util

import (
	"fmt"
	"regexp"
)

const (
	MinUsernameLength = 2
	MaxUsernameLength = 40
	MinPasswordLength = 6
	MaxPasswordLength = 20
)

var emailPattern = regexp.MustCompile(`^(\w|\.|_|-)+@(\w|_|-|\.)+\.\w{2,3}$`)

// ValidateEmail 이메일 형식 검증
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%s is not a valid email", email)
	}
	return nil
}

// ValidateUsername 사용자 이름 길이 검증
func ValidateUsername(username string) error {
	if len([]rune(username)) < MinUsernameLength || len([]rune(username)) > MaxUsernameLength {
		return fmt.Errorf("invalid username, use username length between %d and %d", MinUsernameLength, MaxUsernameLength)
	}
	return nil
}

// ValidatePassword 비밀번호 길이 검증
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return fmt.Errorf("invalid password length, use password length between %d and %d", MinPasswordLength, MaxPasswordLength)
	}
	return nil
}
