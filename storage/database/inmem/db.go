package inmemdb

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/feedback"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/goal"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/otp"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/schedule"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/session"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/studylog"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/support"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/user"
)

type (
	// DB keeps every collection in memory. It is safe for concurrent use.
	DB struct {
		user     *table[user.User]
		session  *table[session.Session]
		otp      *table[otp.Record] // keyed by email
		goal     *table[goal.Goal]
		schedule *table[schedule.Task]
		studyLog *table[studylog.Log]
		feedback *table[feedback.Feedback]
		support  *table[support.Query]
	}

	table[T any] struct {
		sync.RWMutex
		rows map[string]T
	}
)

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

// all returns a copy of the rows matching keep. Callers hold the lock.
func (t *table[T]) all(keep func(T) bool) []T {
	rows := make([]T, 0, len(t.rows))
	for _, r := range t.rows {
		if keep == nil || keep(r) {
			rows = append(rows, r)
		}
	}
	return rows
}

func Open() *DB {
	return &DB{
		user:     newTable[user.User](),
		session:  newTable[session.Session](),
		otp:      newTable[otp.Record](),
		goal:     newTable[goal.Goal](),
		schedule: newTable[schedule.Task](),
		studyLog: newTable[studylog.Log](),
		feedback: newTable[feedback.Feedback](),
		support:  newTable[support.Query](),
	}
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

// sortByCreatedDesc orders rows newest first, breaking ties on id so that the order is stable.
func sortByCreatedDesc[T any](rows []T, createdAt func(T) time.Time, id func(T) string) {
	sort.Slice(rows, func(i, j int) bool {
		ci, cj := createdAt(rows[i]), createdAt(rows[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return id(rows[i]) > id(rows[j])
	})
}

// StartSweeper removes expired sessions and verification codes every interval until ctx is done,
// the way TTL indexes do on the document store.
func (db *DB) StartSweeper(ctx context.Context, conf *core.Config, logger core.Logger, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				now := time.Now().UTC()
				sessions, codes := db.sweep(now, conf.Server.SessionExpiry, conf.OTP.TTL)
				if sessions+codes > 0 {
					logger.Debug("inmem sweeper removed expired records", map[string]interface{}{
						"sessions": sessions,
						"otps":     codes,
					})
				}
			}
		}
	}()
}

func (db *DB) sweep(now time.Time, sessionTTL, otpTTL time.Duration) (sessions, codes int) {
	db.session.Lock()
	for k, s := range db.session.rows {
		if now.Sub(s.CreatedAt) > sessionTTL {
			delete(db.session.rows, k)
			sessions++
		}
	}
	db.session.Unlock()

	db.otp.Lock()
	for k, r := range db.otp.rows {
		if now.Sub(r.CreatedAt) > otpTTL {
			delete(db.otp.rows, k)
			codes++
		}
	}
	db.otp.Unlock()
	return sessions, codes
}
