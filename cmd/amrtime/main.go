package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/mingzhi/amrtime"
	"github.com/mingzhi/amrtime/align"
	"github.com/mingzhi/amrtime/card"
	"github.com/mingzhi/amrtime/simulate"
)

var logger = logrus.New()

type command interface {
	Run(ctx context.Context) error
}

func main() {
	logger.Out = os.Stderr
	registerLogger()

	app := kingpin.New("amrtime", "Prototype of AMRtime metagenomic antimicrobial resistance analysis tool")
	app.Version("v0.1")

	cfg := &cmdConfig{}
	cfg.register(app)

	// Register commands.
	commands := map[string]command{}
	on := func(clause *kingpin.CmdClause, c interface {
		command
		register(*kingpin.CmdClause)
	}) {
		c.register(clause)
		commands[clause.FullCommand()] = c
	}
	on(app.Command("filter", "keep the reads with a DIAMOND hit to the CARD protein db."), &cmdFilter{cmdConfig: cfg})
	on(app.Command("align", "align reads to the CARD protein db."), &cmdAlign{cmdConfig: cfg})
	encode := app.Command("encode", "encode reads as feature vectors.")
	on(encode.Command("homology", "per-family and per-ARO similarity vectors from an alignment report."), &cmdEncodeHomology{cmdConfig: cfg})
	on(encode.Command("kmer", "k-mer frequency vectors."), &cmdEncodeKmer{cmdConfig: cfg})
	on(app.Command("maxscores", "maximum bitscores per family and ARO from a self-alignment of the CARD protein db."), &cmdMaxScores{cmdConfig: cfg})
	catalog := app.Command("catalog", "CARD catalog tools.")
	on(catalog.Command("check", "compare aro_index.tsv with the CARD protein db."), &cmdCatalogCheck{cmdConfig: cfg})
	on(app.Command("simulate", "generate a labelled synthetic metagenome."), &cmdSimulate{cmdConfig: cfg})

	// Parse and run commands.
	name := kingpin.MustParse(app.Parse(os.Args[1:]))
	if err := cfg.ParseConfig(); err != nil {
		logger.Fatalln(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := commands[name].Run(ctx); err != nil {
		stop()
		logger.Fatalln(err)
	}
}

func registerLogger() {
	amrtime.Log = logger
	align.Log = logger
	card.Log = logger
	simulate.Log = logger
}
