package services

import (
	"testing"
	"time"

	"spendwise/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("new@example.com", "password123", "newuser")
		testutil.AssertNoError(t, err)

		if user.Email != "new@example.com" {
			t.Errorf("expected email new@example.com, got %s", user.Email)
		}
		if user.Username != "newuser" {
			t.Errorf("expected username newuser, got %s", user.Username)
		}
		if user.Password == "password123" {
			t.Error("expected password to be hashed")
		}
		if user.ID == "" {
			t.Error("expected an ID to be assigned")
		}
	})

	t.Run("lowercases_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("Mixed@Example.COM", "password123", "")
		testutil.AssertNoError(t, err)

		if user.Email != "mixed@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("dup@example.com", "password123", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("dup@example.com", "otherpassword", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("", "password123", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateUser("no-pass@example.com", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestAttemptLogin(t *testing.T) {
	t.Run("success_resets_attempts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		// Create user via service so password is hashed with DefaultCost
		_, err := svc.CreateUser("login@example.com", "password123", "")
		testutil.AssertNoError(t, err)

		// Simulate previous failed attempts
		db.Exec("UPDATE users SET failed_login_attempts = 3 WHERE email = ?", "login@example.com")

		user, err := svc.AttemptLogin("login@example.com", "password123")
		testutil.AssertNoError(t, err)

		if user.FailedLoginAttempts != 0 {
			t.Errorf("expected 0 failed attempts after success, got %d", user.FailedLoginAttempts)
		}
		if user.LastLoginAt == nil {
			t.Error("expected LastLoginAt to be set after successful login")
		}
	})

	t.Run("wrong_password_increments_attempts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("fail@example.com", "password123", "")
		testutil.AssertNoError(t, err)

		_, err = svc.AttemptLogin("fail@example.com", "wrongpassword")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")

		// Verify the failed attempts were incremented in DB
		user, _ := svc.GetUserByEmail("fail@example.com")
		if user.FailedLoginAttempts != 1 {
			t.Errorf("expected 1 failed attempt, got %d", user.FailedLoginAttempts)
		}
	})

	t.Run("lockout_after_5_failures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("lockout@example.com", "password123", "")
		testutil.AssertNoError(t, err)

		// Fail 5 times
		for i := 0; i < 5; i++ {
			_, err = svc.AttemptLogin("lockout@example.com", "wrong")
			testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
		}

		// Verify account is now locked
		user, _ := svc.GetUserByEmail("lockout@example.com")
		if user.LockedUntil == nil {
			t.Fatal("expected LockedUntil to be set after 5 failures")
		}
		if !user.LockedUntil.After(time.Now()) {
			t.Error("expected LockedUntil to be in the future")
		}
	})

	t.Run("locked_account_returns_error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("locked@example.com", "password123", "")
		testutil.AssertNoError(t, err)

		// Manually lock the account
		lockUntil := time.Now().Add(15 * time.Minute)
		db.Exec("UPDATE users SET locked_until = ?, failed_login_attempts = 5 WHERE email = ?", lockUntil, "locked@example.com")

		_, err = svc.AttemptLogin("locked@example.com", "password123")
		testutil.AssertAppError(t, err, "ACCOUNT_LOCKED")
	})

	t.Run("nonexistent_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin("nobody@example.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestStoreAndGetRefreshTokenHash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	user := testutil.CreateTestUser(t, db)
	hash := "abc123def456"

	err := svc.StoreRefreshTokenHash(user.ID, hash)
	testutil.AssertNoError(t, err)

	got, err := svc.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if got != hash {
		t.Errorf("expected hash %q, got %q", hash, got)
	}

	err = svc.ClearRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)

	got, err = svc.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if got != "" {
		t.Errorf("expected empty hash after clear, got %q", got)
	}
}

func TestUpdateProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	user := testutil.CreateTestUser(t, db)

	updated, err := svc.UpdateProfile(user.ID, "saver", "https://example.com/a.png", "+15551234567")
	testutil.AssertNoError(t, err)

	if updated.Username != "saver" {
		t.Errorf("expected username saver, got %s", updated.Username)
	}
	if updated.AvatarURL != "https://example.com/a.png" {
		t.Errorf("unexpected avatar url %s", updated.AvatarURL)
	}
	if updated.Phone != "+15551234567" {
		t.Errorf("unexpected phone %s", updated.Phone)
	}
}

func TestResetPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	_, err := svc.CreateUser("reset@example.com", "oldpassword", "")
	testutil.AssertNoError(t, err)

	user, err := svc.GetUserByEmail("reset@example.com")
	testutil.AssertNoError(t, err)

	// Lock the account and store a refresh hash; reset should clear both
	lockUntil := time.Now().Add(15 * time.Minute)
	db.Exec("UPDATE users SET locked_until = ?, failed_login_attempts = 5, refresh_token_hash = 'stale' WHERE id = ?", lockUntil, user.ID)

	err = svc.ResetPassword(user.ID, "newpassword")
	testutil.AssertNoError(t, err)

	logged, err := svc.AttemptLogin("reset@example.com", "newpassword")
	testutil.AssertNoError(t, err)
	if logged.RefreshTokenHash != "" {
		t.Error("expected refresh token hash to be cleared on reset")
	}

	_, err = svc.AttemptLogin("reset@example.com", "oldpassword")
	testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
}
