// Package pool reads the players.yaml / captains.yaml files the league
// maintains by hand. It only shapes a Config for the engine; the engine
// itself never touches YAML.
package pool

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/connect2sanju/cricket-auction-system/internal/auction"
)

// entry accepts both spellings the league files use: a bare name
// string, or a mapping with name and photo.
type entry struct {
	Name  string
	Photo string
}

func (e *entry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		e.Name = strings.TrimSpace(node.Value)
		return nil
	}
	var m struct {
		Name  string `yaml:"name"`
		Photo string `yaml:"photo"`
	}
	if err := node.Decode(&m); err != nil {
		return err
	}
	e.Name = strings.TrimSpace(m.Name)
	e.Photo = m.Photo
	return nil
}

type playersFile struct {
	Players []entry `yaml:"players"`
}

type captainsFile struct {
	Captains []entry `yaml:"captains"`
}

// LoadPlayers reads players.yaml from dir, dropping blanks, duplicates
// and anyone who is (or shares a first name with) a captain — the
// files are hand-edited and captains tend to appear in both.
func LoadPlayers(dir string, captainNames []string) ([]auction.Player, error) {
	data, err := os.ReadFile(filepath.Join(dir, "players.yaml"))
	if err != nil {
		return nil, fmt.Errorf("read players.yaml: %w", err)
	}
	var f playersFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse players.yaml: %w", err)
	}

	captains := make(map[string]bool, len(captainNames))
	for _, name := range captainNames {
		captains[name] = true
	}
	seen := make(map[string]bool, len(f.Players))
	players := make([]auction.Player, 0, len(f.Players))
	for _, e := range f.Players {
		if e.Name == "" || seen[e.Name] {
			continue
		}
		if captains[e.Name] || captains[firstName(e.Name)] {
			continue
		}
		seen[e.Name] = true
		players = append(players, auction.Player{Name: e.Name, Photo: e.Photo})
	}
	return players, nil
}

// LoadCaptains reads captains.yaml for photos. Every configured
// captain gets an entry even when the file is missing or has no row
// for them.
func LoadCaptains(dir string, captainNames []string) ([]auction.Captain, error) {
	photos := make(map[string]string, len(captainNames))
	data, err := os.ReadFile(filepath.Join(dir, "captains.yaml"))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// photos stay empty
	case err != nil:
		return nil, fmt.Errorf("read captains.yaml: %w", err)
	default:
		var f captainsFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse captains.yaml: %w", err)
		}
		for _, e := range f.Captains {
			if e.Name != "" {
				photos[e.Name] = e.Photo
			}
		}
	}

	captains := make([]auction.Captain, 0, len(captainNames))
	for _, name := range captainNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		captains = append(captains, auction.Captain{Name: name, Photo: photos[name]})
	}
	return captains, nil
}

func firstName(full string) string {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
