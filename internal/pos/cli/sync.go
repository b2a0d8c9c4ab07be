package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/merchpoint/pos/internal/common"
)

// Sync triggers a synchronization pass right now instead of waiting for the
// next change or connectivity transition.
func (a *App) Sync(ctx context.Context) error {
	err := a.engine.TriggerSync(ctx)
	if err != nil {
		if errors.Is(err, common.ErrOffline) {
			fmt.Println("Offline, cannot sync now")
			return nil
		}
		log.Println(err.Error())
		return err
	}

	fmt.Println("Sync finished")
	return nil
}

// ShowStatus prints the current sync state.
func (a *App) ShowStatus(ctx context.Context) error {
	st := a.engine.Status().Current()

	if a.config.DemoMode {
		fmt.Println("Demo mode: nothing syncs, nothing pends")
		return nil
	}

	if st.Online {
		fmt.Println("Online")
	} else {
		fmt.Println("Offline")
	}
	if st.Syncing {
		fmt.Println("Sync in progress")
	}
	fmt.Printf("Pending sales: %d\n", st.PendingSales)
	fmt.Printf("Pending product changes: %v\n", st.PendingProducts)
	fmt.Printf("Pending settings changes: %v\n", st.PendingSettings)
	if !st.LastSync.IsZero() {
		fmt.Printf("Last successful sync: %s\n", st.LastSync.Local().Format("2006-01-02 15:04:05"))
	}
	if st.Err != "" {
		fmt.Printf("Last error: %s\n", st.Err)
	}
	return nil
}
