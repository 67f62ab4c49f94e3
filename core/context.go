package core

import (
	"context"

	r "github.com/RAFLYBOSENG/Sistem-Dinamis-Penyebaran-HIV/repos"
)

// ServiceContext carries the long-lived resources the controller and web
// handlers share. The context is the process lifetime; request handlers use
// their own request contexts for cancellation.
type ServiceContext struct {
	Context context.Context
	History r.History
}
