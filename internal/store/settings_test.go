package store

import (
	"errors"
	"testing"
)

func TestSettings_SetGet(t *testing.T) {
	s := newTestStore(t)
	settings := s.Settings()

	if _, err := settings.Get(KeyPadding); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unset key, got %v", err)
	}

	if err := settings.Set(KeyPadding, "50"); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	if err := settings.Set(KeyPadding, "75"); err != nil {
		t.Fatalf("failed to overwrite: %v", err)
	}

	v, err := settings.Get(KeyPadding)
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if v != "75" {
		t.Errorf("padding = %q, want %q", v, "75")
	}
}

func TestSettings_Validation(t *testing.T) {
	s := newTestStore(t)
	settings := s.Settings()

	tests := []struct {
		key, value string
		want       error
	}{
		{"volume", "11", ErrUnknownSetting},
		{KeyPadding, "-1", ErrInvalidSetting},
		{KeyPadding, "wide", ErrInvalidSetting},
		{KeyGestureConfidence, "10.5", ErrInvalidSetting},
		{KeyInteractive, "maybe", ErrInvalidSetting},
		{KeyGestureConfidence, "7.5", nil},
		{KeyInteractive, "false", nil},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := settings.Set(tt.key, tt.value)
			if tt.want == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Set() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSettings_TypedGetters(t *testing.T) {
	s := newTestStore(t)
	settings := s.Settings()

	f, err := settings.Float(KeyGestureConfidence, 5)
	if err != nil || f != 5 {
		t.Errorf("Float(unset) = %v, %v; want 5, nil", f, err)
	}
	b, err := settings.Bool(KeyInteractive, true)
	if err != nil || !b {
		t.Errorf("Bool(unset) = %v, %v; want true, nil", b, err)
	}

	if err := settings.Set(KeyGestureConfidence, "6.5"); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	if err := settings.Set(KeyInteractive, "false"); err != nil {
		t.Fatalf("failed to set: %v", err)
	}

	if f, _ := settings.Float(KeyGestureConfidence, 5); f != 6.5 {
		t.Errorf("Float = %v, want 6.5", f)
	}
	if b, _ := settings.Bool(KeyInteractive, true); b {
		t.Error("Bool = true, want false")
	}
}

func TestSettings_AllAndDelete(t *testing.T) {
	s := newTestStore(t)
	settings := s.Settings()

	settings.Set(KeyPadding, "10")
	settings.Set(KeyInteractive, "true")

	all, err := settings.All()
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(all) != 2 || all[KeyPadding] != "10" {
		t.Errorf("All() = %v", all)
	}

	if err := settings.Delete(KeyPadding); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if err := settings.Delete(KeyPadding); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestKnownSetting(t *testing.T) {
	for _, key := range []string{KeyPadding, KeyGestureConfidence, KeyInteractive} {
		if !KnownSetting(key) {
			t.Errorf("KnownSetting(%q) = false", key)
		}
	}
	if KnownSetting("volume") {
		t.Error("KnownSetting(volume) = true")
	}
}
