// AngelaMos | 2026
// capability_test.go

package account

import (
	"errors"
	"testing"
)

func activeAccount(role string, modules ...string) Account {
	return Account{
		ID:                 "acct-1",
		Role:               role,
		Status:             StatusActive,
		ModuleCapabilities: ModuleList(modules),
	}
}

func TestAddCapability(t *testing.T) {
	tests := []struct {
		name    string
		acct    Account
		module  string
		wantErr error
		want    []string
	}{
		{
			name:   "append to existing set",
			acct:   activeAccount(RoleAdmin, "gasha"),
			module: "nisir",
			want:   []string{"gasha", "nisir"},
		},
		{
			name:    "already present",
			acct:    activeAccount(RoleAdmin, "gasha"),
			module:  "gasha",
			wantErr: ErrCapabilityPresent,
		},
		{
			name:    "limit of three",
			acct:    activeAccount(RoleAdmin, "a", "b", "c"),
			module:  "d",
			wantErr: ErrCapabilityLimit,
		},
		{
			name:   "super-admin from empty set",
			acct:   activeAccount(RoleSuperAdmin),
			module: "gasha",
			want:   []string{"gasha"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddCapability(tt.acct, tt.module)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want error %v, got %v", tt.wantErr, err)
				}
				if len(got.Capabilities()) != len(tt.acct.Capabilities()) {
					t.Fatal("failed add must not mutate the capability set")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertModules(t, got.Capabilities(), tt.want)
		})
	}
}

func TestRemoveCapability(t *testing.T) {
	tests := []struct {
		name    string
		acct    Account
		module  string
		wantErr error
		want    []string
	}{
		{
			name:   "remove one of two",
			acct:   activeAccount(RoleAdmin, "gasha", "nisir"),
			module: "nisir",
			want:   []string{"gasha"},
		},
		{
			name:    "not held",
			acct:    activeAccount(RoleAdmin, "gasha"),
			module:  "nisir",
			wantErr: ErrCapabilityMissing,
		},
		{
			name:    "last capability of non-super-admin",
			acct:    activeAccount(RoleMarketing, "gasha"),
			module:  "gasha",
			wantErr: ErrLastCapability,
		},
		{
			name:   "super-admin may drop to zero",
			acct:   activeAccount(RoleSuperAdmin, "gasha"),
			module: "gasha",
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RemoveCapability(tt.acct, tt.module)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want error %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertModules(t, got.Capabilities(), tt.want)
		})
	}
}

// Removing down to one capability succeeds, the next removal fails and
// leaves the set intact.
func TestRemoveCapabilitySequence(t *testing.T) {
	acct := activeAccount(RoleAdmin, "gasha", "nisir")

	acct, err := RemoveCapability(acct, "nisir")
	if err != nil {
		t.Fatalf("first removal: %v", err)
	}

	_, err = RemoveCapability(acct, "gasha")
	if !errors.Is(err, ErrLastCapability) {
		t.Fatalf("want ErrLastCapability, got %v", err)
	}

	assertModules(t, acct.Capabilities(), []string{"gasha"})
}

func TestCardinalityHoldsAfterEveryMutation(t *testing.T) {
	acct := activeAccount(RoleDeveloper, "a")

	ops := []struct {
		add    bool
		module string
	}{
		{true, "b"},
		{true, "c"},
		{false, "a"},
		{true, "d"},
		{false, "b"},
	}

	for i, op := range ops {
		var err error
		var next Account
		if op.add {
			next, err = AddCapability(acct, op.module)
		} else {
			next, err = RemoveCapability(acct, op.module)
		}
		if err != nil {
			continue
		}
		acct = next

		n := len(acct.Capabilities())
		if n < 1 || n > MaxCapabilities {
			t.Fatalf("op %d: cardinality %d outside [1,%d]", i, n, MaxCapabilities)
		}
	}
}

func TestValidateInvariant(t *testing.T) {
	tests := []struct {
		name    string
		acct    Account
		wantErr bool
	}{
		{
			name: "admin with one module",
			acct: activeAccount(RoleAdmin, "gasha"),
		},
		{
			name:    "admin with zero modules",
			acct:    activeAccount(RoleAdmin),
			wantErr: true,
		},
		{
			name: "super-admin with zero modules",
			acct: activeAccount(RoleSuperAdmin),
		},
		{
			name:    "four modules",
			acct:    activeAccount(RoleAdmin, "a", "b", "c", "d"),
			wantErr: true,
		},
		{
			name:    "unknown role",
			acct:    activeAccount("intern", "gasha"),
			wantErr: true,
		},
		{
			name:    "unknown status",
			acct:    Account{Role: RoleAdmin, Status: "frozen", ModuleCapabilities: ModuleList{"gasha"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInvariant(tt.acct)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateInvariant() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	suspended := activeAccount(RoleAdmin, "gasha")
	suspended.Status = StatusSuspended

	legacy := "gasha"
	legacyAcct := Account{
		ID:           "legacy-1",
		Role:         RoleMarketing,
		Status:       StatusActive,
		LegacyModule: &legacy,
	}

	tests := []struct {
		name   string
		acct   *Account
		module string
		want   bool
	}{
		{"nil account", nil, "gasha", false},
		{"super-admin any module", ptr(activeAccount(RoleSuperAdmin)), "anything", true},
		{"active with capability", ptr(activeAccount(RoleMarketing, "gasha")), "gasha", true},
		{"active without capability", ptr(activeAccount(RoleMarketing, "gasha")), "nisir", false},
		{"suspended with capability", &suspended, "gasha", false},
		{"legacy module fallback", &legacyAcct, "gasha", true},
		{"legacy fallback wrong module", &legacyAcct, "nisir", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Authorize(tt.acct, tt.module); got != tt.want {
				t.Fatalf("Authorize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCapabilitiesLegacyFallback(t *testing.T) {
	legacy := "gasha"

	tests := []struct {
		name string
		acct Account
		want []string
	}{
		{
			name: "capability set wins over legacy field",
			acct: Account{ModuleCapabilities: ModuleList{"nisir"}, LegacyModule: &legacy},
			want: []string{"nisir"},
		},
		{
			name: "legacy field used when set is empty",
			acct: Account{LegacyModule: &legacy},
			want: []string{"gasha"},
		},
		{
			name: "nothing at all",
			acct: Account{},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertModules(t, tt.acct.Capabilities(), tt.want)
		})
	}
}

func assertModules(t *testing.T, got ModuleList, want []string) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("capabilities = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("capabilities = %v, want %v", got, want)
		}
	}
}

func ptr(a Account) *Account {
	return &a
}
