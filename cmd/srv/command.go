package main

import "github.com/urfave/cli/v2"

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "Path of the toml config file",
	Value:   "resources/config.toml",
	EnvVars: []string{"CONFIG_FILE"},
}

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "mushroomhunter"
	s.app.Usage = "Progression backend of Mushroom Hunter"
	s.app.Flags = []cli.Flag{configFlag}
	s.app.Before = s.loadConfig
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Serves every hunt, quest, achievement, leaderboard and offline queue api.`,
		},
		{
			Action:      s.startCron,
			Name:        "cron",
			Usage:       "Start cron jobs",
			Category:    "Worker",
			Description: `Flushes offline queues of online users and warms up leaderboards.`,
		},
		{
			Action:      s.startSubscriber,
			Name:        "subscriber",
			Usage:       "Start event subscriber",
			Category:    "Worker",
			Description: `Consumes domain events and delivers push notifications.`,
		},
		{
			Action:   s.startMigrate,
			Name:     "migrate",
			Usage:    "Run a data migration",
			Category: "Database",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{
					Name:     "version",
					Usage:    "Versions of the migrations, for example 0001, they run in the given order",
					Required: true,
				},
			},
			Description: `Runs migrations of the migration package, each in its own transaction. Tables are always auto migrated before.`,
		},
	}
}
