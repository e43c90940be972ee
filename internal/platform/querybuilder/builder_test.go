package querybuilder

import (
	"reflect"
	"testing"
)

func TestSelectBuilder(t *testing.T) {
	t.Parallel()

	sql, args, err := Select("id", "home_score").
		From("games").
		Where(Eq("season_id", "s1"), Eq("status", "final")).
		OrderBy("game_date ASC").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := "SELECT id, home_score FROM games WHERE season_id = $1 AND status = $2 ORDER BY game_date ASC LIMIT 10"
	if sql != want {
		t.Fatalf("sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"s1", "final"}) {
		t.Fatalf("args = %v", args)
	}
}

func TestSelectBuilderEmptyIn(t *testing.T) {
	t.Parallel()

	sql, args, err := Select("id").From("teams").Where(In("id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}
	if want := "SELECT id FROM teams WHERE 1=0"; sql != want {
		t.Fatalf("sql = %q, want %q", sql, want)
	}
	if len(args) != 0 {
		t.Fatalf("args = %v, want none", args)
	}
}

func TestInsertBuilderWithConflictSuffix(t *testing.T) {
	t.Parallel()

	sql, args, err := InsertInto("teams").
		Columns("id", "name").
		Values("t1", "Hapoel").
		Values("t2", "Maccabi").
		Suffix("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name").
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := "INSERT INTO teams (id, name) VALUES ($1, $2), ($3, $4) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name"
	if sql != want {
		t.Fatalf("sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"t1", "Hapoel", "t2", "Maccabi"}) {
		t.Fatalf("args = %v", args)
	}
}

func TestInsertBuilderRowArityMismatch(t *testing.T) {
	t.Parallel()

	_, _, err := InsertInto("teams").Columns("id", "name").Values("t1").ToSQL()
	if err == nil {
		t.Fatal("expected arity error")
	}
}

func TestUpdateBuilderWithExpr(t *testing.T) {
	t.Parallel()

	sql, args, err := Update("sync_logs").
		Set("status", "completed").
		SetExpr("finished_at", "NOW()").
		SetExpr("records_synced", "records_synced + ?", 5).
		Where(Eq("id", "log1")).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := "UPDATE sync_logs SET status = $1, finished_at = NOW(), records_synced = records_synced + $2 WHERE id = $3"
	if sql != want {
		t.Fatalf("sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"completed", 5, "log1"}) {
		t.Fatalf("args = %v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	t.Parallel()

	sql, args, err := DeleteFrom("play_by_play_events").
		Where(Eq("game_id", "g1")).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := "DELETE FROM play_by_play_events WHERE game_id = $1"
	if sql != want {
		t.Fatalf("sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"g1"}) {
		t.Fatalf("args = %v", args)
	}
}

func TestDeleteBuilderRequiresWhere(t *testing.T) {
	t.Parallel()

	if _, _, err := DeleteFrom("games").ToSQL(); err == nil {
		t.Fatal("expected error for delete without where")
	}
}

func TestInsertModel(t *testing.T) {
	t.Parallel()

	row := struct {
		ID     string `db:"id"`
		Name   string `db:"name"`
		Hidden string `db:"-"`
		NoTag  string
	}{ID: "p1", Name: "Kane", Hidden: "x", NoTag: "y"}

	sql, args, err := InsertModel("players", &row, "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		t.Fatalf("InsertModel: %v", err)
	}

	want := "INSERT INTO players (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING"
	if sql != want {
		t.Fatalf("sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"p1", "Kane"}) {
		t.Fatalf("args = %v", args)
	}
}

func TestInsertModelRejectsNil(t *testing.T) {
	t.Parallel()

	var row *struct {
		ID string `db:"id"`
	}
	if _, _, err := InsertModel("players", row, ""); err == nil {
		t.Fatal("expected error for nil model")
	}
}
