package prompt

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/medqa-backend/internal/platform/logger"
)

const sourcesOverrideEnv = "MEDQA_SOURCES_YAML"

//go:embed sources.yaml
var sourcesFS embed.FS

// Policy is the static source list and role statement placed at the top of
// every prompt.
type Policy struct {
	Version        int      `yaml:"version"`
	Role           string   `yaml:"role"`
	Approved       []string `yaml:"approved"`
	Disallowed     []string `yaml:"disallowed"`
	DisallowedNote string   `yaml:"disallowed_note"`
}

// LoadPolicy reads the override named by MEDQA_SOURCES_YAML when set, and the
// embedded policy otherwise. A broken override falls back to the embedded one.
func LoadPolicy(log *logger.Logger) Policy {
	if p := strings.TrimSpace(os.Getenv(sourcesOverrideEnv)); p != "" {
		data, err := os.ReadFile(p)
		if err == nil {
			var pol Policy
			if pol, err = parsePolicy(data); err == nil {
				return pol
			}
		}
		if log != nil {
			log.Warn("prompt: source policy override rejected; using embedded policy", "path", p, "error", err)
		}
	}
	return embeddedPolicy()
}

func embeddedPolicy() Policy {
	data, err := sourcesFS.ReadFile("sources.yaml")
	if err != nil {
		panic(fmt.Sprintf("prompt: embedded sources.yaml missing: %v", err))
	}
	pol, err := parsePolicy(data)
	if err != nil {
		panic(fmt.Sprintf("prompt: embedded sources.yaml invalid: %v", err))
	}
	return pol
}

func parsePolicy(data []byte) (Policy, error) {
	var pol Policy
	if err := yaml.Unmarshal(data, &pol); err != nil {
		return Policy{}, err
	}
	pol.Role = strings.TrimSpace(pol.Role)
	pol.DisallowedNote = strings.TrimSpace(pol.DisallowedNote)
	pol.Approved = compact(pol.Approved)
	pol.Disallowed = compact(pol.Disallowed)
	if pol.Role == "" {
		return Policy{}, errors.New("sources: role is required")
	}
	if len(pol.Approved) == 0 {
		return Policy{}, errors.New("sources: at least one approved source is required")
	}
	return pol, nil
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
