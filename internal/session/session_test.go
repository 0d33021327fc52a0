package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/ornlift/internal/lift"
	"github.com/funvibe/ornlift/internal/term"
)

func TestInMemorySession(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)

	key := lift.GlobalKey{Dir: lift.Forward, Source: "natlist", Target: "sigvec", Term: "c:x"}
	s.Global.Put(key, term.Const{Name: "lifted"})

	require.NoError(t, s.Flush())
	require.NoError(t, s.Close())
}

func TestSessionPersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	key := lift.GlobalKey{Dir: lift.Forward, Source: "natlist", Target: "sigvec", Term: "c:x"}
	lifted := term.MkApp(term.Construct{Ind: "vec", Index: 1},
		term.Construct{Ind: "nat", Index: 0})

	first, err := Open(path)
	require.NoError(t, err)
	first.Global.Put(key, lifted)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	got, ok := second.Global.Get(key)
	require.True(t, ok, "entry should survive reopen")
	require.True(t, term.Equal(got, lifted), "got %s, want %s", got.Key(), lifted.Key())
}

func TestSessionsHaveDistinctIDs(t *testing.T) {
	a, err := Open("")
	require.NoError(t, err)
	b, err := Open("")
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)
}

func TestFlushIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	key := lift.GlobalKey{Dir: lift.Backward, Source: "sigvec", Target: "natlist", Term: "v:l"}

	s, err := Open(path)
	require.NoError(t, err)
	s.Global.Put(key, term.Var{Name: "l"})
	require.NoError(t, s.Flush())
	require.NoError(t, s.Flush())
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	require.Equal(t, 1, reopened.Global.Len())
}

func TestLoadSkipsCorruptRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.db.Exec(
		`INSERT INTO lift_cache (direction, source, target, term_key, lifted) VALUES (0, 'a', 'b', 'c:x', ': not yaml')`)
	require.NoError(t, err)
	good := lift.GlobalKey{Dir: lift.Forward, Source: "a", Target: "b", Term: "c:y"}
	s.Global.Put(good, term.Const{Name: "y"})
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	_, ok := reopened.Global.Get(lift.GlobalKey{Dir: lift.Forward, Source: "a", Target: "b", Term: "c:x"})
	require.False(t, ok, "corrupt row should be dropped")
	_, ok = reopened.Global.Get(good)
	require.True(t, ok, "intact row should load")
}
