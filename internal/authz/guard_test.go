package authz

import (
	"testing"

	"github.com/Renan360Brasil/melody-academy-control/internal/model"
)

func TestEvaluateNotReady(t *testing.T) {
	d := Evaluate(false, false, nil, "/students")
	if d.State != NavLoading {
		t.Fatalf("state: got %v, want NavLoading", d.State)
	}
	if d.RedirectTo != "" || d.Notify {
		t.Error("loading must not redirect or notify")
	}
}

func TestEvaluateNoSession(t *testing.T) {
	d := Evaluate(true, false, nil, "/students")
	if d.State != NavUnauthenticated {
		t.Fatalf("state: got %v, want NavUnauthenticated", d.State)
	}
	if d.RedirectTo != LoginRoute {
		t.Errorf("redirect: got %q, want %q", d.RedirectTo, LoginRoute)
	}
	if d.Notify {
		t.Error("unauthenticated redirect must be silent")
	}
}

func TestEvaluateSessionWithoutProfileDeniesQuietly(t *testing.T) {
	d := Evaluate(true, true, nil, "/students")
	if d.State != NavDenied {
		t.Fatalf("state: got %v, want NavDenied", d.State)
	}
	if d.RedirectTo != HomeRoute {
		t.Errorf("redirect: got %q, want %q", d.RedirectTo, HomeRoute)
	}
	if d.Notify {
		t.Error("unresolved-profile denial must not notify")
	}
}

func TestEvaluateRoleDeniedNotifiesOnce(t *testing.T) {
	student := userWithRole(model.RoleStudent)
	d := Evaluate(true, true, student, "/financial")
	if d.State != NavDenied {
		t.Fatalf("state: got %v, want NavDenied", d.State)
	}
	if d.RedirectTo != HomeRoute {
		t.Errorf("redirect: got %q, want %q", d.RedirectTo, HomeRoute)
	}
	if !d.Notify {
		t.Error("resolved-role denial must notify")
	}
}

func TestEvaluateAllowed(t *testing.T) {
	teacher := userWithRole(model.RoleTeacher)
	d := Evaluate(true, true, teacher, "/schedule")
	if d.State != NavAllowed {
		t.Fatalf("state: got %v, want NavAllowed", d.State)
	}
	if d.RedirectTo != "" || d.Notify {
		t.Error("allowed navigation must not redirect or notify")
	}
}
