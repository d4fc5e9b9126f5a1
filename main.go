package main

import (
	"github.com/samber/lo"
	"github.com/vodhub/vodhub/cmd"
	"github.com/vodhub/vodhub/config"
	"github.com/vodhub/vodhub/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
