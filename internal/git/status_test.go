package git

import (
	"context"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestParsePorcelain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		out           string
		wantStaged    []string
		wantModified  []string
		wantUntracked []string
	}{
		{
			name:          "one of each",
			out:           "?? new.txt\nA  staged.txt\n M mod.txt\n",
			wantStaged:    []string{"staged.txt"},
			wantModified:  []string{"mod.txt"},
			wantUntracked: []string{"new.txt"},
		},
		{
			name:       "index change wins over worktree change",
			out:        "MM both.go\n",
			wantStaged: []string{"both.go"},
		},
		{
			name:         "worktree-only deletion",
			out:          " D gone.txt\n",
			wantModified: []string{"gone.txt"},
		},
		{
			name:       "rename uses new path",
			out:        "R  old.go -> new.go\n",
			wantStaged: []string{"new.go"},
		},
		{
			name:          "quoted path",
			out:           "?? \"with space.txt\"\n",
			wantUntracked: []string{"with space.txt"},
		},
		{
			name:       "type change and copy",
			out:        "T  link\nC  copy.go\n",
			wantStaged: []string{"link", "copy.go"},
		},
		{
			name: "empty output",
			out:  "",
		},
		{
			name:          "crlf and blank lines",
			out:           "?? a.txt\r\n\r\n",
			wantUntracked: []string{"a.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			staged, modified, untracked := ParsePorcelain(tt.out)
			if !slices.Equal(staged, tt.wantStaged) {
				t.Errorf("staged = %v, want %v", staged, tt.wantStaged)
			}
			if !slices.Equal(modified, tt.wantModified) {
				t.Errorf("modified = %v, want %v", modified, tt.wantModified)
			}
			if !slices.Equal(untracked, tt.wantUntracked) {
				t.Errorf("untracked = %v, want %v", untracked, tt.wantUntracked)
			}
		})
	}
}

func TestStatusCounts(t *testing.T) {
	t.Parallel()

	staged, modified, untracked := ParsePorcelain("?? new.txt\nA  staged.txt\n M mod.txt\n")
	s := Status{Staged: staged, Modified: modified, Untracked: untracked}

	if got := s.ChangedFiles(); got != 3 {
		t.Errorf("ChangedFiles() = %d, want 3", got)
	}
	if !s.IsDirty() {
		t.Error("IsDirty() = false, want true")
	}

	want := []Change{{"A ", "staged.txt"}, {" M", "mod.txt"}, {"??", "new.txt"}}
	if got := s.Changes(); !slices.Equal(got, want) {
		t.Errorf("Changes() = %v, want %v", got, want)
	}

	if (Status{}).IsDirty() {
		t.Error("empty status should be clean")
	}
}

func TestParseAheadBehind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		out     string
		ahead   int
		behind  int
		wantErr bool
	}{
		{out: "3\t1\n", ahead: 3, behind: 1},
		{out: "0\t0", ahead: 0, behind: 0},
		{out: "", wantErr: true},
		{out: "x\t1", wantErr: true},
		{out: "1\ty", wantErr: true},
	}

	for _, tt := range tests {
		ahead, behind, err := parseAheadBehind(tt.out)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseAheadBehind(%q) error = %v, wantErr %v", tt.out, err, tt.wantErr)
			continue
		}
		if ahead != tt.ahead || behind != tt.behind {
			t.Errorf("parseAheadBehind(%q) = %d, %d, want %d, %d", tt.out, ahead, behind, tt.ahead, tt.behind)
		}
	}
}

func TestGetStatus_MissingPath(t *testing.T) {
	t.Parallel()

	s := GetStatus(context.Background(), filepath.Join(t.TempDir(), "gone"))
	if s.Error != "" || s.Branch != "" || s.IsDirty() {
		t.Errorf("GetStatus(missing) = %+v, want empty status", s)
	}
}

func TestGetStatus_NotARepo(t *testing.T) {
	t.Parallel()

	s := GetStatus(context.Background(), t.TempDir())
	if s.Error == "" {
		t.Error("GetStatus(non-repo) should record an error")
	}
}

func TestTimeoutsFrom(t *testing.T) {
	t.Parallel()

	if got := timeoutsFrom(context.Background()); got != DefaultTimeouts() {
		t.Errorf("timeoutsFrom(empty) = %+v, want defaults", got)
	}

	ctx := WithTimeouts(context.Background(), Timeouts{Read: time.Second})
	got := timeoutsFrom(ctx)
	if got.Read != time.Second {
		t.Errorf("Read = %v, want 1s", got.Read)
	}
	if got.Branch != DefaultTimeouts().Branch || got.Network != DefaultTimeouts().Network {
		t.Errorf("zero fields should fall back to defaults, got %+v", got)
	}
}
