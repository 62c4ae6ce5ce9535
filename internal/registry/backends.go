package registry

import (
	_ "github.com/airstick/airstick/backend/jsdev"  // Register jsdev backend
	_ "github.com/airstick/airstick/backend/replay" // Register replay backend
)
