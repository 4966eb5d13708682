// internal/shell/query.go
package shell

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/nhath/sqlrepl/internal/db"
	"github.com/nhath/sqlrepl/internal/ui/table"
)

// Eval runs every statement of input against the open database in order,
// printing result sets to the session output. It stops at the first failing
// statement and returns the number of rows shown or affected so far.
func Eval(ctx context.Context, s *Session, input string) (int, error) {
	stmts := db.SplitStatements(input)
	if len(stmts) == 0 {
		return 0, nil
	}
	if err := s.requireDriver(); err != nil {
		return 0, err
	}

	total := 0
	for _, stmt := range stmts {
		res, err := s.Driver.Execute(ctx, stmt)
		if err != nil {
			s.Log.Debugw("statement failed", "sql", stmt, "error", err)
			return total, err
		}
		if res.IsSelect {
			total += res.RowCount
			if len(res.Columns) > 0 {
				s.Println(table.Render(res.Columns, res.Rows, s.TableStyle))
			}
			s.Log.Debugw("query finished", "rows", res.RowCount, "took", res.ExecTime)
			continue
		}
		total += int(res.AffectedRows)
		s.Log.Debugw("statement finished", "affected", res.AffectedRows, "took", res.ExecTime)
	}
	return total, nil
}

// RunScript evaluates script like Eval. When the script fails after opening
// a transaction, that transaction is rolled back so later input does not
// run inside it.
func RunScript(ctx context.Context, s *Session, script string) error {
	tx, _ := s.Driver.(db.Transactor)
	wasOpen := false
	if tx != nil {
		open, err := tx.InTransaction(ctx)
		if err != nil {
			return err
		}
		wasOpen = open
	}

	_, err := Eval(ctx, s, script)
	if err == nil || tx == nil || wasOpen {
		return err
	}

	ctx = context.WithoutCancel(ctx)
	if open, terr := tx.InTransaction(ctx); terr != nil || !open {
		return err
	}
	if _, rerr := s.Driver.Execute(ctx, "ROLLBACK"); rerr != nil {
		return errors.CombineErrors(err, errors.Wrap(rerr, "roll back script transaction"))
	}
	s.Log.Debugw("rolled back script transaction")
	fmt.Fprintln(s.Err, "script failed; its open transaction was rolled back")
	return err
}
