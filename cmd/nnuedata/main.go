package main

import (
	"log"
	"os"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var err = run(os.Args[1:])
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var cli = NewCli(args)
	cli.AddCommand("sample", func() error {
		return runSample(cli.Params())
	})
	cli.AddCommand("export", func() error {
		return runExport(cli.Params())
	})
	cli.AddCommand("init", func() error {
		return runInit(cli.Params())
	})
	cli.AddCommand("eval", func() error {
		return runEval(cli.Params())
	})
	return cli.Execute()
}
