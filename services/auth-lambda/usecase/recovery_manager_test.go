package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sige-marimon/services/services/auth-lambda/models"
)

// ============================================================
// Fakes
// ============================================================

type fakeStore struct {
	mu sync.Mutex

	admin    *models.AdminIdentity
	adminErr error

	employees []models.EmployeeRecord
	queryErr  error

	patchErr        error
	patchedID       int
	patchedPassword string

	adminCalls int
	queryCalls int
	patchCalls int
}

func (s *fakeStore) AuthenticateAdmin(ctx context.Context, email, password string) (*models.AdminIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adminCalls++
	if s.adminErr != nil {
		return nil, s.adminErr
	}
	return s.admin, nil
}

func (s *fakeStore) QueryEmployeesByEmail(ctx context.Context, email string) ([]models.EmployeeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryCalls++
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	var matched []models.EmployeeRecord
	for _, e := range s.employees {
		if e.CorporateEmail == email && e.Active {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

func (s *fakeStore) PatchEmployeePassword(ctx context.Context, employeeID int, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patchCalls++
	if s.patchErr != nil {
		return s.patchErr
	}
	s.patchedID = employeeID
	s.patchedPassword = newPassword
	return nil
}

type sentMail struct {
	Recipient string
	Subject   string
	Body      string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(ctx context.Context, recipient, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{Recipient: recipient, Subject: subject, Body: body})
	return nil
}

// fakeClock returns a controllable time; step advances it on every read so a
// single operation can observe the clock moving.
type fakeClock struct {
	mu      sync.Mutex
	current time.Time
	step    time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.current
	c.current = c.current.Add(c.step)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// ============================================================
// Test setup helpers
// ============================================================

const testEmail = "maria@marimon.com"

func newTestManager() (*RecoveryManager, *fakeStore, *fakeSender, *fakeClock) {
	store := &fakeStore{
		employees: []models.EmployeeRecord{
			{ID: 12, Name: "Maria Lopez", CorporateEmail: testEmail, AreaID: 3, Password: "secret1", Active: true},
		},
	}
	sender := &fakeSender{}
	clock := newFakeClock()
	manager := NewRecoveryManager(store, sender, clock.Now)
	return manager, store, sender, clock
}

func (m *RecoveryManager) storedCode(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.entries[email]; ok {
		return entry.Code
	}
	return ""
}

func (m *RecoveryManager) entryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// ============================================================
// Test: RequestRecovery
// ============================================================

func TestRequestRecovery(t *testing.T) {
	t.Run("Registered email", func(t *testing.T) {
		manager, _, sender, _ := newTestManager()

		ok, msg := manager.RequestRecovery(context.Background(), testEmail)
		if !ok {
			t.Fatalf("RequestRecovery() failed: %s", msg)
		}
		if msg != MsgCodeSent {
			t.Errorf("RequestRecovery() message = %q, want %q", msg, MsgCodeSent)
		}

		code := manager.storedCode(testEmail)
		if len(code) != 6 {
			t.Errorf("stored code %q is not 6 digits", code)
		}
		if len(sender.sent) != 1 {
			t.Fatalf("expected 1 email, got %d", len(sender.sent))
		}
		if !strings.Contains(sender.sent[0].Body, code) {
			t.Errorf("email body does not carry the code %q: %q", code, sender.sent[0].Body)
		}
		if sender.sent[0].Recipient != testEmail {
			t.Errorf("email recipient = %q, want %q", sender.sent[0].Recipient, testEmail)
		}
	})

	t.Run("Unregistered email", func(t *testing.T) {
		manager, _, sender, _ := newTestManager()

		ok, msg := manager.RequestRecovery(context.Background(), "nobody@x.com")
		if ok {
			t.Error("RequestRecovery() should fail for unregistered email")
		}
		if msg != MsgEmailNotRegistered {
			t.Errorf("RequestRecovery() message = %q, want %q", msg, MsgEmailNotRegistered)
		}
		if manager.entryCount() != 0 {
			t.Error("no entry should be created for unregistered email")
		}
		if len(sender.sent) != 0 {
			t.Error("sender should never be invoked for unregistered email")
		}
	})

	t.Run("Delivery failure keeps the entry", func(t *testing.T) {
		manager, _, sender, _ := newTestManager()
		sender.err = errors.New("smtp unreachable")

		ok, msg := manager.RequestRecovery(context.Background(), testEmail)
		if ok {
			t.Error("RequestRecovery() should report delivery failure")
		}
		if msg != MsgSendFailed {
			t.Errorf("RequestRecovery() message = %q, want %q", msg, MsgSendFailed)
		}
		// Stored before delivery, not rolled back
		if code := manager.storedCode(testEmail); code == "" {
			t.Error("entry should remain stored after delivery failure")
		}
	})
}

// ============================================================
// Test: VerifyCode
// ============================================================

func TestVerifyCode(t *testing.T) {
	t.Run("Valid code is not consumed by verification", func(t *testing.T) {
		manager, _, _, _ := newTestManager()
		manager.RequestRecovery(context.Background(), testEmail)
		code := manager.storedCode(testEmail)

		for i := 0; i < 3; i++ {
			ok, msg := manager.VerifyCode(context.Background(), testEmail, code)
			if !ok {
				t.Fatalf("VerifyCode() attempt %d failed: %s", i+1, msg)
			}
			if msg != MsgCodeValid {
				t.Errorf("VerifyCode() message = %q, want %q", msg, MsgCodeValid)
			}
		}
	})

	t.Run("No entry", func(t *testing.T) {
		manager, _, _, _ := newTestManager()

		ok, msg := manager.VerifyCode(context.Background(), testEmail, "123456")
		if ok {
			t.Error("VerifyCode() should fail without an entry")
		}
		if msg != MsgNoCode {
			t.Errorf("VerifyCode() message = %q, want %q", msg, MsgNoCode)
		}
	})

	t.Run("Incorrect code", func(t *testing.T) {
		manager, _, _, _ := newTestManager()
		manager.RequestRecovery(context.Background(), testEmail)
		code := manager.storedCode(testEmail)

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}
		ok, msg := manager.VerifyCode(context.Background(), testEmail, wrong)
		if ok {
			t.Error("VerifyCode() should fail for a wrong code")
		}
		if msg != MsgCodeIncorrect {
			t.Errorf("VerifyCode() message = %q, want %q", msg, MsgCodeIncorrect)
		}
	})

	t.Run("Expired entry is swept", func(t *testing.T) {
		manager, _, _, clock := newTestManager()
		manager.RequestRecovery(context.Background(), testEmail)
		code := manager.storedCode(testEmail)

		clock.Advance(16 * time.Minute)

		ok, msg := manager.VerifyCode(context.Background(), testEmail, code)
		if ok {
			t.Error("VerifyCode() should fail for an expired code")
		}
		if msg != MsgNoCode {
			t.Errorf("VerifyCode() message = %q, want %q", msg, MsgNoCode)
		}
		if manager.entryCount() != 0 {
			t.Error("expired entry should be removed by the sweep")
		}
	})

	t.Run("Expiry between sweep and comparison", func(t *testing.T) {
		manager, _, _, clock := newTestManager()
		manager.RequestRecovery(context.Background(), testEmail)
		code := manager.storedCode(testEmail)

		// Entry expires at creation+15m. Position the clock just inside the
		// window and let it jump past expiry on the read after the sweep.
		clock.Advance(14*time.Minute + 59*time.Second)
		clock.mu.Lock()
		clock.step = 2 * time.Minute
		clock.mu.Unlock()

		ok, msg := manager.VerifyCode(context.Background(), testEmail, code)
		if ok {
			t.Error("VerifyCode() should fail when the entry expires mid-check")
		}
		if msg != MsgCodeExpired {
			t.Errorf("VerifyCode() message = %q, want %q", msg, MsgCodeExpired)
		}
		if manager.entryCount() != 0 {
			t.Error("entry should be removed once seen expired")
		}
	})

	t.Run("Sweep is global across emails", func(t *testing.T) {
		manager, store, _, clock := newTestManager()
		otherEmail := "pedro@marimon.com"
		store.employees = append(store.employees, models.EmployeeRecord{
			ID: 13, Name: "Pedro Diaz", CorporateEmail: otherEmail, AreaID: 1, Password: "x", Active: true,
		})

		manager.RequestRecovery(context.Background(), testEmail)
		clock.Advance(16 * time.Minute)

		// An operation on a different email sweeps the expired entry too
		manager.RequestRecovery(context.Background(), otherEmail)

		if manager.storedCode(testEmail) != "" {
			t.Error("expired entry for the first email should be gone after any operation")
		}
	})

	t.Run("Replacement invalidates the prior code", func(t *testing.T) {
		manager, _, _, _ := newTestManager()
		manager.RequestRecovery(context.Background(), testEmail)
		firstCode := manager.storedCode(testEmail)

		manager.RequestRecovery(context.Background(), testEmail)
		secondCode := manager.storedCode(testEmail)

		if firstCode != secondCode {
			if ok, _ := manager.VerifyCode(context.Background(), testEmail, firstCode); ok {
				t.Error("first code should be invalid after a second request")
			}
		}
		if ok, msg := manager.VerifyCode(context.Background(), testEmail, secondCode); !ok {
			t.Errorf("second code should verify: %s", msg)
		}
	})
}

// ============================================================
// Test: ChangePassword
// ============================================================

func TestChangePassword(t *testing.T) {
	t.Run("Happy path", func(t *testing.T) {
		manager, store, _, _ := newTestManager()
		manager.RequestRecovery(context.Background(), testEmail)
		code := manager.storedCode(testEmail)

		ok, msg := manager.ChangePassword(context.Background(), testEmail, code, "nuevo123")
		if !ok {
			t.Fatalf("ChangePassword() failed: %s", msg)
		}
		if msg != MsgPasswordChanged {
			t.Errorf("ChangePassword() message = %q, want %q", msg, MsgPasswordChanged)
		}
		if store.patchedID != 12 || store.patchedPassword != "nuevo123" {
			t.Errorf("patched (%d, %q), want (12, %q)", store.patchedID, store.patchedPassword, "nuevo123")
		}
	})

	t.Run("Single use", func(t *testing.T) {
		manager, _, _, _ := newTestManager()
		manager.RequestRecovery(context.Background(), testEmail)
		code := manager.storedCode(testEmail)

		if ok, _ := manager.ChangePassword(context.Background(), testEmail, code, "new1"); !ok {
			t.Fatal("first ChangePassword() should succeed")
		}

		ok, msg := manager.ChangePassword(context.Background(), testEmail, code, "new2")
		if ok {
			t.Error("second ChangePassword() with the same code should fail")
		}
		if msg != MsgInvalidCode {
			t.Errorf("ChangePassword() message = %q, want %q", msg, MsgInvalidCode)
		}

		// The consumed code is no longer verifiable either
		if ok, msg := manager.VerifyCode(context.Background(), testEmail, code); ok || msg != MsgCodeUsed {
			t.Errorf("VerifyCode() after consumption = (%v, %q), want (false, %q)", ok, msg, MsgCodeUsed)
		}
	})

	t.Run("Wrong code maps to the generic message", func(t *testing.T) {
		manager, store, _, _ := newTestManager()
		manager.RequestRecovery(context.Background(), testEmail)
		code := manager.storedCode(testEmail)

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}
		ok, msg := manager.ChangePassword(context.Background(), testEmail, wrong, "new")
		if ok {
			t.Error("ChangePassword() should fail for a wrong code")
		}
		if msg != MsgInvalidCode {
			t.Errorf("ChangePassword() message = %q, want %q", msg, MsgInvalidCode)
		}
		if store.patchCalls != 0 {
			t.Error("no password update should happen for a wrong code")
		}
	})

	t.Run("Update failure leaves the code valid", func(t *testing.T) {
		manager, store, _, _ := newTestManager()
		manager.RequestRecovery(context.Background(), testEmail)
		code := manager.storedCode(testEmail)

		store.patchErr = errors.New("store unavailable")
		ok, msg := manager.ChangePassword(context.Background(), testEmail, code, "new")
		if ok {
			t.Error("ChangePassword() should fail when the update fails")
		}
		if msg != MsgChangeFailed {
			t.Errorf("ChangePassword() message = %q, want %q", msg, MsgChangeFailed)
		}

		// Retry with the same code once the store recovers
		store.patchErr = nil
		if ok, msg := manager.ChangePassword(context.Background(), testEmail, code, "new"); !ok {
			t.Errorf("retry with the same code should succeed: %s", msg)
		}
	})

	t.Run("Employee vanished after verification", func(t *testing.T) {
		manager, store, _, _ := newTestManager()
		manager.RequestRecovery(context.Background(), testEmail)
		code := manager.storedCode(testEmail)

		store.mu.Lock()
		store.employees = nil
		store.mu.Unlock()

		ok, msg := manager.ChangePassword(context.Background(), testEmail, code, "new")
		if ok {
			t.Error("ChangePassword() should fail when the employee is gone")
		}
		if msg != MsgEmployeeNotFound {
			t.Errorf("ChangePassword() message = %q, want %q", msg, MsgEmployeeNotFound)
		}
	})

	t.Run("Concurrent calls consume the code once", func(t *testing.T) {
		manager, store, _, _ := newTestManager()
		manager.RequestRecovery(context.Background(), testEmail)
		code := manager.storedCode(testEmail)

		start := make(chan struct{})
		results := make(chan bool, 2)
		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				ok, _ := manager.ChangePassword(context.Background(), testEmail, code, "nuevo123")
				results <- ok
			}()
		}
		close(start)
		wg.Wait()
		close(results)

		successes := 0
		for ok := range results {
			if ok {
				successes++
			}
		}
		if successes != 1 {
			t.Fatalf("expected exactly 1 successful ChangePassword, got %d", successes)
		}

		store.mu.Lock()
		patches := store.patchCalls
		store.mu.Unlock()
		if patches != 1 {
			t.Errorf("expected exactly 1 password update, got %d", patches)
		}
	})
}

// ============================================================
// Test: code generation
// ============================================================

func TestGenerateCodeRange(t *testing.T) {
	clock := newFakeClock()
	for i := 0; i < 200; i++ {
		code := generateCode(clock.Now)
		if len(code) != 6 {
			t.Fatalf("generateCode() = %q, want 6 digits", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("generateCode() = %q, not numeric", code)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("generateCode() = %d, out of [100000, 999999]", n)
		}
	}
}

// ============================================================
// Test: concurrent recovery operations
// ============================================================

func TestRecoveryConcurrency(t *testing.T) {
	manager, store, _, _ := newTestManager()
	emails := []string{
		"user1@marimon.com",
		"user2@marimon.com",
		"user3@marimon.com",
		"user4@marimon.com",
		"user5@marimon.com",
	}
	for i, email := range emails {
		store.employees = append(store.employees, models.EmployeeRecord{
			ID: 100 + i, Name: "User", CorporateEmail: email, AreaID: 1, Password: "x", Active: true,
		})
	}

	var wg sync.WaitGroup
	for _, email := range emails {
		wg.Add(1)
		go func(e string) {
			defer wg.Done()
			manager.RequestRecovery(context.Background(), e)
		}(email)
	}
	wg.Wait()

	for _, email := range emails {
		wg.Add(1)
		go func(e string) {
			defer wg.Done()
			code := manager.storedCode(e)
			if ok, msg := manager.VerifyCode(context.Background(), e, code); !ok {
				t.Errorf("verification failed for %s: %s", e, msg)
			}
		}(email)
	}
	wg.Wait()
}
