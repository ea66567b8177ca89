package main

import (
	"context"
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/bodgit/dotedit"
	"github.com/bodgit/dotedit/bitmap"
	"github.com/bodgit/dotedit/level"
	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/bmp"
)

const defaultConfig = "dotedit.toml"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func loadConfig(c *cli.Context) (*dotedit.Config, error) {
	cfg, err := dotedit.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("db") {
		cfg.Database = c.String("db")
	}
	return cfg, nil
}

func newEditor(c *cli.Context) (*dotedit.Editor, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return dotedit.New(cfg, newLogger(c)), nil
}

func openCatalog(c *cli.Context) (*dotedit.Catalog, *dotedit.LevelDB, *dotedit.Config, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := dotedit.NewLevelDB(cfg.Database)
	if err != nil {
		return nil, nil, nil, err
	}
	return dotedit.NewCatalog(db, newLogger(c)), db, cfg, nil
}

func intArgs(c *cli.Context, from int) ([]int, error) {
	var ints []int
	for i := from; i < c.NArg(); i++ {
		n, err := strconv.Atoi(c.Args().Get(i))
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q", c.Args().Get(i))
		}
		ints = append(ints, n)
	}
	return ints, nil
}

func newImage(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	e, err := newEditor(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	if err := e.NewImage(c.Int("width"), c.Int("height")); err != nil {
		return cli.NewExitError(err, 1)
	}

	if err := e.Save(c.Args().First()); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func info(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	f, err := os.Open(c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer f.Close()

	img, data, err := bitmap.DecodeLevel(f)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	if data == nil {
		data = level.FromCanvas(img)
		fmt.Printf("Level data: absent\n")
	}
	fmt.Printf("Format:     %s\n", data.Format)
	fmt.Printf("Size:       %dx%d\n", img.Width(), img.Height())
	fmt.Printf("Colors:     %d\n", data.Colors)
	for i, color := range img.Palette {
		fmt.Printf("Palette %2d: %s\n", i, color)
	}

	return nil
}

func importImage(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if c.IsSet("dither") {
		cfg.Dither = c.Bool("dither")
	}
	e := dotedit.New(cfg, newLogger(c))

	if err := e.Import(c.Args().Get(0)); err != nil {
		return cli.NewExitError(err, 1)
	}

	if err := e.Save(c.Args().Get(1)); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func exportImage(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	img, err := dotedit.Load(c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	f, err := os.Create(c.Args().Get(1))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer f.Close()

	if err := png.Encode(f, img.Paletted()); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func draw(c *cli.Context) error {
	if c.NArg() < 4 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	tool, ok := dotedit.ParseTool(c.Args().Get(1))
	if !ok {
		return cli.NewExitError(fmt.Sprintf("unknown tool %q", c.Args().Get(1)), 1)
	}

	points, err := intArgs(c, 2)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if len(points)%2 != 0 {
		return cli.NewExitError("coordinates must be given in pairs", 1)
	}

	e, err := newEditor(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	if err := e.Open(c.Args().First()); err != nil {
		return cli.NewExitError(err, 1)
	}

	button := dotedit.Primary
	if c.Bool("secondary") {
		button = dotedit.Secondary
	}
	if c.IsSet("color") {
		e.SetColorIndex(button, uint8(c.Uint("color")))
	}
	e.SetTool(tool)

	e.Press(button, points[0], points[1])
	for i := 2; i < len(points)-2; i += 2 {
		e.Drag(points[i], points[i+1])
	}
	e.Release(points[len(points)-2], points[len(points)-1])

	if err := e.Save(""); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func paletteExport(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	e, err := newEditor(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	if err := e.Open(c.Args().Get(0)); err != nil {
		return cli.NewExitError(err, 1)
	}

	if err := e.ExportPalette(c.Args().Get(1)); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func paletteImport(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	e, err := newEditor(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	if err := e.Open(c.Args().Get(0)); err != nil {
		return cli.NewExitError(err, 1)
	}

	if err := e.ImportPalette(c.Args().Get(1)); err != nil {
		return cli.NewExitError(err, 1)
	}

	if err := e.Save(""); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func scan(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	catalog, db, _, err := openCatalog(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer db.Close()

	if err := catalog.Scan(c.Args().First()); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func watch(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	catalog, db, cfg, err := openCatalog(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := catalog.Watch(ctx, c.Args().First(), cfg.Watch.Debounce()); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func list(c *cli.Context) error {
	_, db, _, err := openCatalog(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer db.Close()

	levels, err := db.ListLevels()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	for _, l := range levels {
		fmt.Printf("%-24s %s %3dx%-3d %2d colors %s\n", l.Name, l.Format, l.Width, l.Height, l.Colors, l.SHA1)
	}

	palettes, err := db.ListPalettes()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	for _, name := range palettes {
		fmt.Printf("%-24s palette\n", name)
	}

	return nil
}

func extract(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	_, db, _, err := openCatalog(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer db.Close()

	img, err := db.FindLevel(c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if img == nil {
		return cli.NewExitError(fmt.Sprintf("no level named %q", c.Args().Get(0)), 1)
	}

	file := c.Args().Get(1)
	if filepath.Ext(file) == "" {
		file += level.Extension(level.FromCanvas(img).Format)
	}

	if err := dotedit.Save(file, img); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "dotedit"
	app.Usage = "16 color pixel art and level editor"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"DOTEDIT_CONFIG"},
			Value:   filepath.Join(cwd, defaultConfig),
			Usage:   "path to configuration file",
		},
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"DOTEDIT_DB"},
			Usage:   "path to database, overrides the configuration file",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "new",
			Usage:     "Create a blank image",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "width",
					Usage: "image width, defaults to the configured width",
				},
				&cli.IntFlag{
					Name:  "height",
					Usage: "image height, defaults to the configured height",
				},
			},
			Action: newImage,
		},
		{
			Name:      "info",
			Usage:     "Describe an image and its level data",
			ArgsUsage: "FILE",
			Action:    info,
		},
		{
			Name:        "import",
			Usage:       "Convert an image to 16 colors",
			Description: "Reads a BMP, GIF, JPEG or PNG image and reduces it to a 16 color palette.",
			ArgsUsage:   "SOURCE FILE",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "dither",
					Usage: "use Floyd-Steinberg error diffusion",
				},
			},
			Action: importImage,
		},
		{
			Name:      "export",
			Usage:     "Export an image as PNG",
			ArgsUsage: "FILE PNG",
			Action:    exportImage,
		},
		{
			Name:        "draw",
			Usage:       "Draw on an image",
			Description: "Presses at the first point, drags through any middle points and releases at the last. TOOL is one of pencil, fill, line, rect or ellipse.",
			ArgsUsage:   "FILE TOOL X Y [X Y]...",
			Flags: []cli.Flag{
				&cli.UintFlag{
					Name:  "color",
					Usage: "palette index to draw with",
				},
				&cli.BoolFlag{
					Name:  "secondary",
					Usage: "draw with the secondary color",
				},
			},
			Action: draw,
		},
		{
			Name:  "palette",
			Usage: "Read or write an image palette",
			Subcommands: []*cli.Command{
				{
					Name:      "export",
					Usage:     "Write the palette of an image to a text file",
					ArgsUsage: "FILE HEX",
					Action:    paletteExport,
				},
				{
					Name:      "import",
					Usage:     "Replace the palette of an image from a text file",
					ArgsUsage: "FILE HEX",
					Action:    paletteImport,
				},
			},
		},
		{
			Name:      "scan",
			Usage:     "Scan filesystem and add levels and palettes to the database",
			ArgsUsage: "DIRECTORY",
			Action:    scan,
		},
		{
			Name:      "watch",
			Usage:     "Keep the database in sync with a directory",
			ArgsUsage: "DIRECTORY",
			Action:    watch,
		},
		{
			Name:   "list",
			Usage:  "List levels and palettes in the database",
			Action: list,
		},
		{
			Name:      "extract",
			Usage:     "Write a level from the database to a file",
			ArgsUsage: "NAME FILE",
			Action:    extract,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
