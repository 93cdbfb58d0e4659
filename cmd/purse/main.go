// Package main provides a command line interface to run a purse deployment
// against a local database.
//
// The deployment is described by a YAML configuration holding the path of
// the database, the genesis of the contract and the reserve account at the
// token service. The init command consumes the genesis, then actions and
// queries can be sent with the send and query commands. Replies are printed
// as JSON on the standard output.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.dedis.ch/caisse/contracts/ftoken"
	"go.dedis.ch/caisse/contracts/purse/types"
	"go.dedis.ch/caisse/core/access"
	"go.dedis.ch/caisse/core/store/kv"
	"go.dedis.ch/caisse/runtime"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

func main() {
	err := run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	app := &cli.App{
		Name:  "purse",
		Usage: "run a purse deployment against a local database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "purse.yml",
				Usage: "path to the deployment configuration",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "initialize the deployment from the configuration",
				Action: initAction,
			},
			{
				Name:      "send",
				Usage:     "send an action to the contract and print the reply",
				ArgsUsage: "<action>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "from",
						Usage:    "hexadecimal address of the sender",
						Required: true,
					},
				},
				Action: sendAction,
			},
			{
				Name:      "query",
				Usage:     "send a query to the contract and print the reply",
				ArgsUsage: "<query>",
				Action:    queryAction,
			},
			{
				Name:  "grant",
				Usage: "allow an address to send actions to the contract",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "addr",
						Usage:    "hexadecimal address to grant",
						Required: true,
					},
				},
				Action: grantAction,
			},
		},
	}

	return app.Run(args)
}

// accountConfig is the YAML description of an initial balance.
type accountConfig struct {
	Id     string `yaml:"id"`
	Amount uint64 `yaml:"amount"`
}

// config is the YAML description of a deployment.
type config struct {
	DB           string          `yaml:"db"`
	Reserve      string          `yaml:"reserve"`
	ReserveFunds uint64          `yaml:"reserve_funds"`
	Metadata     string          `yaml:"metadata"`
	TotalSupply  uint64          `yaml:"total_supply"`
	Admins       []string        `yaml:"admins"`
	Balances     []accountConfig `yaml:"balances"`
}

func loadConfig(path string) (config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return config{}, xerrors.Errorf("couldn't read config: %v", err)
	}

	cfg := config{DB: "purse.db"}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return config{}, xerrors.Errorf("couldn't parse config: %v", err)
	}

	return cfg, nil
}

// makeInit converts the genesis section of the configuration into the init
// payload of the contract.
func (cfg config) makeInit() (types.Init, error) {
	init := types.Init{
		Metadata:    cfg.Metadata,
		TotalSupply: cfg.TotalSupply,
	}

	for _, admin := range cfg.Admins {
		addr, err := access.AddressFromText(admin)
		if err != nil {
			return types.Init{}, xerrors.Errorf("invalid admin address: %v", err)
		}

		init.Admins = append(init.Admins, addr)
	}

	for _, account := range cfg.Balances {
		addr, err := access.AddressFromText(account.Id)
		if err != nil {
			return types.Init{}, xerrors.Errorf("invalid account address: %v", err)
		}

		init.Balances = append(init.Balances, types.Account{Id: addr, Amount: account.Amount})
	}

	return init, nil
}

func (cfg config) reserveAddr() (access.Address, error) {
	if cfg.Reserve == "" {
		return access.Address{}, nil
	}

	return access.AddressFromText(cfg.Reserve)
}

func open(c *cli.Context) (*runtime.Session, kv.DB, config, error) {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return nil, nil, config{}, err
	}

	reserve, err := cfg.reserveAddr()
	if err != nil {
		return nil, nil, config{}, xerrors.Errorf("invalid reserve address: %v", err)
	}

	db, err := kv.New(cfg.DB)
	if err != nil {
		return nil, nil, config{}, xerrors.Errorf("couldn't open db: %v", err)
	}

	ft := ftoken.NewService()
	ft.Credit(reserve, cfg.ReserveFunds)

	return runtime.NewSession(db, ft, reserve), db, cfg, nil
}

func initAction(c *cli.Context) error {
	sess, db, cfg, err := open(c)
	if err != nil {
		return err
	}

	defer db.Close()

	init, err := cfg.makeInit()
	if err != nil {
		return err
	}

	err = sess.Initialize(init)
	if err != nil {
		return xerrors.Errorf("couldn't initialize: %v", err)
	}

	fmt.Fprintln(c.App.Writer, "deployment initialized")

	return nil
}

func sendAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return xerrors.New("missing action")
	}

	sender, err := access.AddressFromText(c.String("from"))
	if err != nil {
		return xerrors.Errorf("invalid sender address: %v", err)
	}

	sess, db, _, err := open(c)
	if err != nil {
		return err
	}

	defer db.Close()

	reply := sess.Process(sender, []byte(c.Args().First()))

	fmt.Fprintln(c.App.Writer, string(reply))

	return nil
}

func queryAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return xerrors.New("missing query")
	}

	sess, db, _, err := open(c)
	if err != nil {
		return err
	}

	defer db.Close()

	reply := sess.Query([]byte(c.Args().First()))

	fmt.Fprintln(c.App.Writer, string(reply))

	return nil
}

func grantAction(c *cli.Context) error {
	addr, err := access.AddressFromText(c.String("addr"))
	if err != nil {
		return xerrors.Errorf("invalid address: %v", err)
	}

	sess, db, _, err := open(c)
	if err != nil {
		return err
	}

	defer db.Close()

	err = sess.Grant(addr)
	if err != nil {
		return xerrors.Errorf("couldn't grant: %v", err)
	}

	return nil
}
