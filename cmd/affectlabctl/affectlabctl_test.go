package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fadedpez/affectlab/pkg/entities"
	"github.com/fadedpez/affectlab/pkg/roller"
	"github.com/fadedpez/affectlab/pkg/services/share"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type CLITestSuite struct {
	suite.Suite
	out *bytes.Buffer
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}

func (s *CLITestSuite) SetupTest() {
	s.out = &bytes.Buffer{}
	rootCmd.SetOut(s.out)
	rootCmd.SetErr(&bytes.Buffer{})

	globalFlags = GlobalFlags{LogLevel: "error"}
	rollTemplate = "energy-daily"
	rollReroll = false
	rollSimulate = 0
}

func (s *CLITestSuite) run(args ...string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func (s *CLITestSuite) writeCatalog(body string) string {
	path := filepath.Join(s.T().TempDir(), "catalog.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(body), 0644))
	return path
}

func (s *CLITestSuite) TestSimulateCountsEveryRoll() {
	// Setup
	draws := []*roller.Result{
		{Rarity: entities.RaritySSR, LuckScore: 97},
		{Rarity: entities.RarityN, LuckScore: 10},
	}
	calls := 0
	roll := func() (*roller.Result, error) {
		res := draws[calls%len(draws)]
		calls++
		return res, nil
	}

	// Execute
	err := simulate(s.out, 4, roll)

	// Assert
	s.Require().NoError(err)
	s.Equal(4, calls)
	s.Contains(s.out.String(), "4 rolls")
	s.Contains(s.out.String(), "50.0%  luck  97.0")
	s.Contains(s.out.String(), "0.0%  luck   0.0")
}

func (s *CLITestSuite) TestSimulateStopsOnError() {
	err := simulate(s.out, 3, func() (*roller.Result, error) { return nil, assert.AnError })

	s.ErrorIs(err, assert.AnError)
}

func (s *CLITestSuite) TestRollSimulateBuiltinTemplate() {
	err := s.run("roll", "Ann", "--template", "energy-daily", "--simulate", "50")

	s.Require().NoError(err)
	s.Contains(s.out.String(), "50 rolls")
}

func (s *CLITestSuite) TestRollSingleCard() {
	err := s.run("roll", "Ann", "--template", "cyber-fortune")

	s.Require().NoError(err)
	s.Contains(s.out.String(), "今日运势")
	s.Contains(s.out.String(), "Luck ")
}

func (s *CLITestSuite) TestRollUnknownTemplate() {
	err := s.run("roll", "Ann", "--template", "missing")

	s.Error(err)
}

func (s *CLITestSuite) TestTemplatesList() {
	err := s.run("templates", "list", "--category", entities.CategoryLucky)

	s.Require().NoError(err)
	s.Contains(s.out.String(), "energy-daily")
	s.NotContains(s.out.String(), entities.CustomTemplateID)
}

func (s *CLITestSuite) TestTemplatesValidate() {
	// Setup
	path := s.writeCatalog(`
assetBase: https://cdn.example.com/cards/
templates:
  - id: plain
    title: Plain
    category: lucky
    cost: 1
    assets:
      N: plain-N.png
`)

	// Execute
	err := s.run("templates", "validate", path)

	// Assert
	s.Require().NoError(err)
	s.Contains(s.out.String(), "warning: plain has no preset texts")
	s.Contains(s.out.String(), "1 templates OK")
}

func (s *CLITestSuite) TestTemplatesValidateRejectsDuplicates() {
	path := s.writeCatalog(`
templates:
  - id: twin
    title: A
  - id: twin
    title: B
`)

	err := s.run("templates", "validate", path)

	s.Require().Error(err)
	s.Contains(err.Error(), "duplicate template id twin")
}

func (s *CLITestSuite) TestShareOpen() {
	// Setup
	link := "https://affectlab.example/share?" + share.Encode(&entities.GeneratedResult{
		TemplateID: "energy-daily",
		UserInput:  "Ann",
		Rarity:     entities.RaritySSR,
		LuckScore:  97,
	})

	// Execute
	err := s.run("share", "open", link)

	// Assert
	s.Require().NoError(err)
	s.Contains(s.out.String(), "[SSR] Ann 的运势评分: 97")
	s.Contains(s.out.String(), "Template: energy-daily")
}

func (s *CLITestSuite) TestParseEntryType() {
	t, err := parseEntryType(" daily ")
	s.Require().NoError(err)
	s.Equal(entities.LedgerEntryDaily, t)

	_, err = parseEntryType("bonus")
	s.Error(err)
}
