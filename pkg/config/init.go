package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var Config = DefaultConfiguration()

// ErrMissingOutDir is returned when no output directory is configured.
var ErrMissingOutDir = errors.New("must specify out directory")

func DefaultConfiguration() *Configuration {
	return &Configuration{
		RootDir:       ".",
		HTMLExt:       ".html",
		CatalogName:   "galleries",
		ModulePattern: `\.static(\.[A-Za-z0-9_-]+)*\.tpl$`,
		Minify: MinifyConfiguration{
			HTML: true,
		},
		ServeConfig: ServeConfiguration{
			Redirect404: "",
			Port:        8100,
		},
	}
}

// Configuration mirrors the hydrate.json (or .yaml) file. Source trees and
// OutDir are relative to RootDir, output trees relative to OutDir.
type Configuration struct {
	RootDir string `json:"root_dir,omitempty" yaml:"root_dir,omitempty"`
	OutDir  string `json:"out_dir,omitempty" yaml:"out_dir,omitempty"`

	HTMLFrom   string `json:"html_from,omitempty" yaml:"html_from,omitempty"`
	HTMLOut    string `json:"html_out,omitempty" yaml:"html_out,omitempty"`
	CSSFrom    string `json:"css_from,omitempty" yaml:"css_from,omitempty"`
	CSSOut     string `json:"css_out,omitempty" yaml:"css_out,omitempty"`
	AssetsFrom string `json:"assets_from,omitempty" yaml:"assets_from,omitempty"`
	AssetsOut  string `json:"assets_out,omitempty" yaml:"assets_out,omitempty"`
	JSFrom     string `json:"js_from,omitempty" yaml:"js_from,omitempty"`
	JSOut      string `json:"js_out,omitempty" yaml:"js_out,omitempty"`

	ComponentsFrom string `json:"components_from,omitempty" yaml:"components_from,omitempty"`
	ModulePattern  string `json:"module_pattern,omitempty" yaml:"module_pattern,omitempty"`

	Galleries   []string `json:"galleries,omitempty" yaml:"galleries,omitempty"`
	CatalogName string   `json:"catalog_name,omitempty" yaml:"catalog_name,omitempty"`

	HTMLExt           string              `json:"html_ext,omitempty" yaml:"html_ext,omitempty"`
	Minify            MinifyConfiguration `json:"minify" yaml:"minify"`
	Store             *StoreConfiguration `json:"store,omitempty" yaml:"store,omitempty"`
	SanitizeFragments bool                `json:"sanitize_fragments,omitempty" yaml:"sanitize_fragments,omitempty"`

	ServeConfig ServeConfiguration `json:"serve_config,omitempty" yaml:"serve_config,omitempty"`
}

type MinifyConfiguration struct {
	HTML bool `json:"html" yaml:"html"`
	CSS  bool `json:"css" yaml:"css"`
	JS   bool `json:"js" yaml:"js"`
}

// StoreConfiguration enables wrap mode: components see the JSON state and
// wrapped fragments render inside the provider template.
type StoreConfiguration struct {
	StateFile        string `json:"state_file" yaml:"state_file"`
	ProviderTemplate string `json:"provider_template" yaml:"provider_template"`
}

type ServeConfiguration struct {
	Redirect404 string `json:"redirect_404" yaml:"redirect_404"`
	Port        int    `json:"port" yaml:"port"`
}

// Paths are the absolute directories of a build. Empty means not configured.
type Paths struct {
	Out        string
	HTMLFrom   string
	HTMLOut    string
	CSSFrom    string
	CSSOut     string
	AssetsFrom string
	AssetsOut  string
	JSFrom     string
	JSOut      string
	Components string
	StoreState string
	Provider   string
}

// AssetsRoot is where assets live for the pages: the output tree when
// copied, the source tree otherwise.
func (p Paths) AssetsRoot() string {
	if p.AssetsOut != "" {
		return p.AssetsOut
	}
	return p.AssetsFrom
}

// StylesRoot is where stylesheets are listed from.
func (p Paths) StylesRoot() string {
	if p.CSSOut != "" {
		return p.CSSOut
	}
	return p.CSSFrom
}

// Resolve computes absolute paths. OutDir is the only required entry.
func (c *Configuration) Resolve() (Paths, error) {
	root := c.RootDir
	if root == "" {
		root = "."
	}
	root, err := filepath.Abs(os.ExpandEnv(root))
	if err != nil {
		return Paths{}, err
	}

	from := func(p string) string {
		p = strings.TrimSpace(os.ExpandEnv(p))
		if p == "" {
			return ""
		}
		return filepath.Join(root, p)
	}

	out := from(c.OutDir)
	if out == "" {
		return Paths{}, ErrMissingOutDir
	}
	to := func(p string) string {
		p = strings.TrimSpace(os.ExpandEnv(p))
		if p == "" {
			return ""
		}
		return filepath.Join(out, p)
	}

	paths := Paths{
		Out:        out,
		HTMLFrom:   from(c.HTMLFrom),
		HTMLOut:    to(c.HTMLOut),
		CSSFrom:    from(c.CSSFrom),
		CSSOut:     to(c.CSSOut),
		AssetsFrom: from(c.AssetsFrom),
		AssetsOut:  to(c.AssetsOut),
		JSFrom:     from(c.JSFrom),
		JSOut:      to(c.JSOut),
		Components: from(c.ComponentsFrom),
	}
	if c.Store != nil {
		paths.StoreState = from(c.Store.StateFile)
		paths.Provider = from(c.Store.ProviderTemplate)
	}
	return paths, nil
}

// Init loads .env files then the configuration file into Config. A missing
// file keeps the defaults.
func Init(configpath string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not load .env: %v", err)
	}

	if configpath == "" {
		configpath = "hydrate.json"
	}

	_, err := os.Stat(configpath)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("could not access configuration file %s: %v", configpath, err)
		}

		return nil
	}

	return Load(configpath, Config)
}

// Load decodes the file at path into c, as YAML for .yaml/.yml files and
// JSON otherwise.
func Load(path string, c *Configuration) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.NewDecoder(f).Decode(c)
	default:
		err = json.NewDecoder(f).Decode(c)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("could not decode configuration file %s: %v", path, err)
	}

	return nil
}
