package readiness

import (
	"fmt"
	"strconv"
	"strings"
)

// AICrawlers are the user agents of the major AI crawlers.
var AICrawlers = []string{
	"GPTBot",
	"ChatGPT-User",
	"ClaudeBot",
	"Claude-Web",
	"Google-Extended",
	"Bingbot",
	"Applebot",
	"Anthropic-AI",
	"PerplexityBot",
	"YouBot",
}

// Access describes what robots.txt grants a crawler.
type Access string

const (
	AccessAllowed Access = "allowed"
	AccessPartial Access = "partial"
	AccessBlocked Access = "blocked"
	// AccessDefault means no rule applies to the crawler.
	AccessDefault Access = "default"
)

// AgentRules are the directives of one user-agent group.
type AgentRules struct {
	UserAgent  string   `json:"user_agent"`
	Disallow   []string `json:"disallow"`
	Allow      []string `json:"allow"`
	CrawlDelay int      `json:"crawl_delay,omitempty"`
	BlocksAll  bool     `json:"blocks_all"`
}

func (r *AgentRules) access() Access {
	switch {
	case r.BlocksAll:
		return AccessBlocked
	case len(r.Disallow) > 0:
		return AccessPartial
	default:
		return AccessAllowed
	}
}

// CrawlerStatus is the access one AI crawler gets.
type CrawlerStatus struct {
	Name   string `json:"name"`
	Access Access `json:"access"`
	// Rules summarizes the group that applies, if any.
	Rules string `json:"rules,omitempty"`
}

// RobotsAnalysis is the parsed content of a robots.txt file.
type RobotsAnalysis struct {
	Found      bool   `json:"found"`
	StatusCode int    `json:"status_code"`
	Content    string `json:"-"`

	Sitemaps []string `json:"sitemaps"`
	// Agents keeps the groups in file order.
	Agents   []*AgentRules   `json:"agents"`
	Crawlers []CrawlerStatus `json:"ai_crawlers"`
	Issues   []string        `json:"issues"`
}

// ParseRobots parses robots.txt content. Consecutive User-agent lines share
// one group of directives. Unknown directives are ignored.
func ParseRobots(content string) *RobotsAnalysis {
	a := &RobotsAnalysis{
		Found:      true,
		StatusCode: 200,
		Content:    content,
		Sitemaps:   make([]string, 0),
		Agents:     make([]*AgentRules, 0),
		Issues:     make([]string, 0),
	}

	var group []*AgentRules
	inAgentLines := false
	for _, line := range strings.Split(content, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		directive, val, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		directive = strings.ToLower(strings.TrimSpace(directive))
		val = strings.TrimSpace(val)

		if directive == "user-agent" {
			if !inAgentLines {
				group = nil
			}
			rules := &AgentRules{UserAgent: val, Disallow: make([]string, 0), Allow: make([]string, 0)}
			group = append(group, rules)
			a.Agents = append(a.Agents, rules)
			inAgentLines = true
			continue
		}
		inAgentLines = false

		switch directive {
		case "disallow":
			if val == "" {
				continue
			}
			for _, r := range group {
				r.Disallow = append(r.Disallow, val)
				if val == "/" {
					r.BlocksAll = true
				}
			}
		case "allow":
			if val == "" {
				continue
			}
			for _, r := range group {
				r.Allow = append(r.Allow, val)
			}
		case "crawl-delay":
			if delay, err := strconv.Atoi(val); err == nil && delay >= 0 {
				for _, r := range group {
					r.CrawlDelay = delay
				}
			}
		case "sitemap":
			if val != "" {
				a.Sitemaps = append(a.Sitemaps, val)
			}
		}
	}

	for _, name := range AICrawlers {
		status := CrawlerStatus{Name: name, Access: AccessDefault}
		if rules := a.agent(name); rules != nil {
			status.Access = rules.access()
			status.Rules = rules.String()
		} else if wildcard := a.agent("*"); wildcard != nil {
			if access := wildcard.access(); access != AccessAllowed {
				status.Access = access
			}
			status.Rules = wildcard.String()
		}
		a.Crawlers = append(a.Crawlers, status)
	}

	if len(a.Sitemaps) == 0 {
		a.Issues = append(a.Issues, "No sitemap URLs found")
	}
	if wildcard := a.agent("*"); wildcard != nil && wildcard.BlocksAll {
		a.Issues = append(a.Issues, "All bots blocked with 'Disallow: /'")
	}
	return a
}

// agent returns the group for name, matched case-insensitively.
func (a *RobotsAnalysis) agent(name string) *AgentRules {
	for _, r := range a.Agents {
		if strings.EqualFold(r.UserAgent, name) {
			return r
		}
	}
	return nil
}

// Crawler returns the status of the named AI crawler.
func (a *RobotsAnalysis) Crawler(name string) (CrawlerStatus, bool) {
	for _, c := range a.Crawlers {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return CrawlerStatus{}, false
}

// IsPathAllowed reports whether agent may fetch path. The agent's own group
// applies, else the wildcard group. Allow rules win over Disallow rules.
func (a *RobotsAnalysis) IsPathAllowed(path, agent string) bool {
	rules := a.agent(agent)
	if rules == nil {
		rules = a.agent("*")
	}
	if rules == nil {
		return true
	}
	for _, allow := range rules.Allow {
		if strings.HasPrefix(path, allow) {
			return true
		}
	}
	for _, disallow := range rules.Disallow {
		if strings.HasPrefix(path, disallow) {
			return false
		}
	}
	return true
}

// String summarizes the group as "User-agent: X; Disallow: /a; ...".
func (r *AgentRules) String() string {
	agent := r.UserAgent
	if agent == "*" {
		agent = "* (all bots)"
	}
	parts := []string{"User-agent: " + agent}
	if r.BlocksAll {
		parts = append(parts, "Disallow: / (FULL BLOCK)")
	} else {
		for _, p := range r.Disallow {
			parts = append(parts, "Disallow: "+p)
		}
		for _, p := range r.Allow {
			parts = append(parts, "Allow: "+p)
		}
	}
	if r.CrawlDelay > 0 {
		parts = append(parts, fmt.Sprintf("Crawl-delay: %ds", r.CrawlDelay))
	}
	return strings.Join(parts, "; ")
}
