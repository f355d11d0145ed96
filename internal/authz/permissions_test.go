package authz

import (
	"testing"

	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/google/uuid"
)

func userWithRole(role model.Role) *model.AuthUser {
	return &model.AuthUser{ID: uuid.New(), Name: "Test", Email: "test@example.com", Role: role}
}

func TestAdminCanAccessEveryRoute(t *testing.T) {
	admin := userWithRole(model.RoleAdmin)
	routes := []string{"/", "/students", "/teachers", "/courses", "/enrollments", "/financial", "/schedule", "/settings"}
	for _, route := range routes {
		if !CanAccessRoute(admin, route) {
			t.Errorf("admin denied on %s", route)
		}
	}
}

func TestTeacherAndStudentLimitedToSharedRoutes(t *testing.T) {
	allowed := map[string]bool{"/": true, "/schedule": true, "/settings": true}
	all := []string{"/", "/students", "/teachers", "/courses", "/enrollments", "/financial", "/schedule", "/settings"}

	for _, role := range []model.Role{model.RoleTeacher, model.RoleStudent} {
		u := userWithRole(role)
		for _, route := range all {
			got := CanAccessRoute(u, route)
			if got != allowed[route] {
				t.Errorf("%s on %s: got %v, want %v", role, route, got, allowed[route])
			}
		}
	}
}

func TestNilUserIsDeniedEverywhere(t *testing.T) {
	for _, route := range []string{"/", "/schedule", "/settings", "/students"} {
		if CanAccessRoute(nil, route) {
			t.Errorf("nil user allowed on %s", route)
		}
	}
}

func TestUnknownRouteAndRoleDenied(t *testing.T) {
	if CanAccessRoute(userWithRole(model.RoleAdmin), "/unknown") {
		t.Error("admin allowed on unknown route")
	}
	if CanAccessRoute(userWithRole(model.Role("ghost")), "/") {
		t.Error("unknown role allowed on /")
	}
}

func TestAllowedRoutesReturnsCopy(t *testing.T) {
	first := AllowedRoutes(model.RoleStudent)
	if len(first) != 3 {
		t.Fatalf("student routes: got %d, want 3", len(first))
	}
	first[0] = "/mutated"
	second := AllowedRoutes(model.RoleStudent)
	if second[0] == "/mutated" {
		t.Error("AllowedRoutes leaked internal slice")
	}
}
