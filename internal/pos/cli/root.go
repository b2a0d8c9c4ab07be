package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	syncx "github.com/merchpoint/pos/internal/pos/sync"
)

func (a *App) getStatus() string {
	if a.config.DemoMode {
		return "(demo)"
	}

	st := a.engine.Status().Current()

	s := "offline"
	if st.Online {
		s = "online"
	}
	if st.Syncing {
		s += ", syncing"
	}
	if n := pendingCount(st); n > 0 {
		s += fmt.Sprintf(", %d pending", n)
	}
	return "(" + s + ")"
}

// pendingCount folds the per-category pending state into one number for the
// prompt: unsynced sales plus one for each dirty singleton category.
func pendingCount(st syncx.Status) int {
	n := st.PendingSales
	if st.PendingProducts {
		n++
	}
	if st.PendingSettings {
		n++
	}
	return n
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to the merch-point POS (type 'help' for commands)")

	if !a.config.DemoMode {
		go a.monitor.Run(ctx)
	}

	unsubscribe := a.engine.Status().Subscribe(a.announce())
	defer unsubscribe()

	a.engine.RecomputePending(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// announce returns a status listener that prints connectivity transitions
// and newly surfaced sync errors. The publisher only notifies on change, so
// the listener just has to avoid repeating itself across unrelated updates.
func (a *App) announce() func(syncx.Status) {
	var last syncx.Status
	first := true

	return func(st syncx.Status) {
		if !first && st.Online != last.Online {
			if st.Online {
				log.Println("Back online, syncing pending changes")
			} else {
				log.Println("Offline, changes will be kept locally")
			}
		}
		if st.Err != "" && st.Err != last.Err {
			log.Printf("Sync problem: %s\n", st.Err)
		}
		last = st
		first = false
	}
}
