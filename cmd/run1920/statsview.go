// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"github.com/ezrec/run1920/translate"
)

const (
	STATSVIEW_ADDRESS = "localhost:12600"
	STATSVIEW_URL     = "/debug/statsview"
)

// launchStatsview starts the runtime statistics server in the background.
func launchStatsview(output io.Writer) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(STATSVIEW_ADDRESS))
		mgr := statsview.New()
		mgr.Start()
	}()

	translate.Fprintf(output, "[!] Stats server available at http://%s%s\n", STATSVIEW_ADDRESS, STATSVIEW_URL)
}
