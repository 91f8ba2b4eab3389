// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/mdhasher/internal/adapters/config"
	_ "go.trai.ch/mdhasher/internal/adapters/detector"
	_ "go.trai.ch/mdhasher/internal/adapters/fs"
	_ "go.trai.ch/mdhasher/internal/adapters/logger"
	// Register app nodes.
	_ "go.trai.ch/mdhasher/internal/app"
)
