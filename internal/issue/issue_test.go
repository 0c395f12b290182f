// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	ids := []Id{
		ManifestNotFoundId,
		ManifestParseErrorId,
		ProjectNotFoundId,
		NoProjectSpecifiedId,
		UnsupportedPackageTypeId,
		InvalidMacroId,
		BuildToolFailedId,
		ContainerEngineNotFoundId,
		HookFailedId,
		ConfigLoadFailedId,
		PermissionDeniedId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
		if Get(id) == nil {
			t.Errorf("Get(%d) returned nil", id)
		}
	}

	if ManifestNotFoundId != 1 {
		t.Errorf("ManifestNotFoundId = %d, want 1", ManifestNotFoundId)
	}
}

func TestIssue_ExtLinks(t *testing.T) {
	issue := Get(BuildToolFailedId)
	if issue == nil {
		t.Fatal("Get(BuildToolFailedId) returned nil")
	}

	links := issue.ExtLinks()
	if len(links) == 0 {
		t.Fatal("expected external links")
	}

	original := links[0]
	links[0] = "modified"
	if issue.ExtLinks()[0] != original {
		t.Error("ExtLinks() should return a clone")
	}
}

func TestIssue_Render(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	render = func(in, _ string) (string, error) {
		return in, nil
	}

	rendered, err := Get(ContainerEngineNotFoundId).Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}

	if !strings.Contains(rendered, "Container engine not found") {
		t.Error("Render() output should contain the title")
	}
	if !strings.Contains(rendered, "## See also") || !strings.Contains(rendered, "https://podman.io") {
		t.Errorf("Render() output should list external links, got:\n%s", rendered)
	}

	rendered, err = Get(NoProjectSpecifiedId).Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if strings.Contains(rendered, "See also") {
		t.Error("issues without links should not render a See also section")
	}
}

func TestIssue_RenderGlamour(t *testing.T) {
	rendered, err := Get(ProjectNotFoundId).Render("notty")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if !strings.Contains(rendered, "Project not found") {
		t.Errorf("rendered output missing title:\n%s", rendered)
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id       Id
		wantNil  bool
		contains string
	}{
		{ManifestNotFoundId, false, "No anda.hcl found"},
		{ManifestParseErrorId, false, "Failed to parse"},
		{ProjectNotFoundId, false, "Project not found"},
		{NoProjectSpecifiedId, false, "No project specified"},
		{UnsupportedPackageTypeId, false, "not supported"},
		{InvalidMacroId, false, "Invalid RPM macro"},
		{BuildToolFailedId, false, "Build tool failed"},
		{ContainerEngineNotFoundId, false, "Container engine not found"},
		{HookFailedId, false, "Hook script failed"},
		{ConfigLoadFailedId, false, "Failed to load configuration"},
		{PermissionDeniedId, false, "Permission denied"},
		{Id(9999), true, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			issue := Get(tt.id)

			if tt.wantNil {
				if issue != nil {
					t.Errorf("Get(%d) should return nil", tt.id)
				}
				return
			}

			if issue == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if !strings.Contains(string(issue.MarkdownMsg()), tt.contains) {
				t.Errorf("Get(%d).MarkdownMsg() should contain %q", tt.id, tt.contains)
			}
		})
	}
}

func TestValues(t *testing.T) {
	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), len(issues))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Errorf("Values() not sorted at %d", i)
		}
	}
}
