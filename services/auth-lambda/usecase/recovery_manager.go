package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"sync"
	"time"

	"github.com/sige-marimon/services/common/logger"
	"github.com/sige-marimon/services/services/auth-lambda/models"
)

// recoveryCodeTTL is how long a recovery code stays valid after issuance
const recoveryCodeTTL = 15 * time.Minute

// User-facing recovery messages
const (
	MsgEmailNotRegistered = "email not registered"
	MsgSendFailed         = "failed to send email"
	MsgCodeSent           = "code sent, expires in 15 minutes"
	MsgNoCode             = "no valid code found, request a new one"
	MsgCodeUsed           = "code already used, request a new one"
	MsgCodeIncorrect      = "incorrect code"
	MsgCodeExpired        = "code expired, request a new one"
	MsgCodeValid          = "code valid"
	MsgInvalidCode        = "invalid code"
	MsgEmployeeNotFound   = "employee not found"
	MsgPasswordChanged    = "password changed successfully"
	MsgChangeFailed       = "failed to change password"
)

// RecoveryManager owns the lifecycle of one-time password recovery codes
// keyed by corporate email: creation, verification, lazy expiration sweep and
// single-use consumption tied to a password change. The store is volatile:
// entries live in process memory and are lost on restart.
//
// The clock and both collaborators are constructor-injected so tests can
// drive expiration deterministically.
type RecoveryManager struct {
	mu      sync.Mutex
	entries map[string]*models.RecoveryCode

	store  CredentialStore
	sender NotificationSender
	now    func() time.Time
	log    *logger.Logger
}

// NewRecoveryManager creates a recovery manager. A nil clock defaults to
// time.Now.
func NewRecoveryManager(store CredentialStore, sender NotificationSender, clock func() time.Time) *RecoveryManager {
	if clock == nil {
		clock = time.Now
	}
	return &RecoveryManager{
		entries: make(map[string]*models.RecoveryCode),
		store:   store,
		sender:  sender,
		now:     clock,
		log:     logger.With("component", "recovery"),
	}
}

// RequestRecovery issues a fresh code for the email and sends it. A new
// request replaces any prior live entry for the same email. The entry is
// stored before delivery is attempted and is not rolled back when delivery
// fails.
func (m *RecoveryManager) RequestRecovery(ctx context.Context, email string) (bool, string) {
	m.sweep()

	employees, err := m.store.QueryEmployeesByEmail(ctx, email)
	if err != nil {
		m.log.Error("employee lookup failed email=%s: %v", email, err)
		return false, MsgEmailNotRegistered
	}
	if len(employees) == 0 {
		return false, MsgEmailNotRegistered
	}

	code := generateCode(m.now)
	now := m.now()

	m.mu.Lock()
	m.entries[email] = &models.RecoveryCode{
		EmployeeID: employees[0].ID,
		Code:       code,
		Email:      email,
		CreatedAt:  now,
		ExpiresAt:  now.Add(recoveryCodeTTL),
		Used:       false,
	}
	m.mu.Unlock()

	subject := "SIGE Marimon - Password recovery code"
	body := fmt.Sprintf(
		"Your password recovery code is: %s\n\n"+
			"The code expires in 15 minutes. If you did not request it, ignore this message.\n\n"+
			"SIGE Marimon",
		code,
	)
	if err := m.sender.Send(ctx, email, subject, body); err != nil {
		m.log.Error("recovery code delivery failed email=%s: %v", email, err)
		return false, MsgSendFailed
	}

	m.log.Info("recovery code sent email=%s employee_id=%d", email, employees[0].ID)
	return true, MsgCodeSent
}

// VerifyCode checks a code without consuming it, so the UI may re-validate
// repeatedly. Marking the code used is ChangePassword's responsibility alone.
func (m *RecoveryManager) VerifyCode(ctx context.Context, email, code string) (bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked()

	entry, exists := m.entries[email]
	if !exists {
		return false, MsgNoCode
	}
	if entry.Used {
		return false, MsgCodeUsed
	}
	if entry.Code != code {
		return false, MsgCodeIncorrect
	}
	// Re-check expiry after the sweep; the clock may have moved between the
	// sweep and the comparison.
	if m.now().After(entry.ExpiresAt) {
		delete(m.entries, email)
		return false, MsgCodeExpired
	}
	return true, MsgCodeValid
}

// ChangePassword consumes a verified code and overwrites the employee's
// password in the remote store. The entry is claimed under the lock before
// the remote update, so concurrent calls with the same code cannot both
// succeed; a failed update releases the claim and leaves the code valid for
// a retry.
func (m *RecoveryManager) ChangePassword(ctx context.Context, email, code, newPassword string) (bool, string) {
	if !m.claim(email, code) {
		return false, MsgInvalidCode
	}

	// Authoritative lookup: the claim only consulted the in-memory map
	employees, err := m.store.QueryEmployeesByEmail(ctx, email)
	if err != nil || len(employees) == 0 {
		m.release(email, code)
		return false, MsgEmployeeNotFound
	}

	if err := m.store.PatchEmployeePassword(ctx, employees[0].ID, newPassword); err != nil {
		m.log.Error("password update failed email=%s employee_id=%d: %v", email, employees[0].ID, err)
		m.release(email, code)
		return false, MsgChangeFailed
	}

	m.log.Info("password changed email=%s employee_id=%d", email, employees[0].ID)
	return true, MsgPasswordChanged
}

// claim atomically marks the entry consumed when it passes the same checks
// VerifyCode applies. At most one caller can claim a given code.
func (m *RecoveryManager) claim(email, code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked()

	entry, exists := m.entries[email]
	if !exists || entry.Used || entry.Code != code {
		return false
	}
	if m.now().After(entry.ExpiresAt) {
		delete(m.entries, email)
		return false
	}
	entry.Used = true
	return true
}

// release returns a claimed entry to the valid state if it still holds the
// same code
func (m *RecoveryManager) release(email, code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, exists := m.entries[email]; exists && entry.Code == code {
		entry.Used = false
	}
}

// sweep removes every expired entry, for all emails
func (m *RecoveryManager) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
}

func (m *RecoveryManager) sweepLocked() {
	now := m.now()
	for email, entry := range m.entries {
		if now.After(entry.ExpiresAt) {
			delete(m.entries, email)
		}
	}
}

// generateCode draws a uniform 6-digit code in [100000, 999999]. No
// uniqueness check across live codes; the storage key is the email, not the
// code.
func generateCode(clock func() time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand failure: derive an in-range code from the clock
		return strconv.FormatInt(100000+clock().UnixNano()%900000, 10)
	}
	return strconv.FormatInt(100000+n.Int64(), 10)
}
