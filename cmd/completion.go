package cmd

import (
	"context"

	"github.com/etnz/tradesim/docs"
	"github.com/etnz/tradesim/store"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"github.com/rs/zerolog"
)

// Complete performs shell completion when the shell asks for it, in which
// case the program exits. Otherwise it does nothing.
//
// Install it in bash with:
//
//	$ COMP_INSTALL=1 tradesim
func Complete(name string) {
	completion(complete.PredictFunc(listedSymbols), complete.PredictFunc(userNames)).Complete(name)
}

// completion returns the completion tree of the commands.
func completion(symbols, users complete.Predictor) *complete.Command {
	formats := predict.Set{"md", "html", "json"}
	report := map[string]complete.Predictor{
		"format": formats,
		"q":      predict.Something,
	}
	trade := map[string]complete.Predictor{
		"s": symbols,
		"q": predict.Something,
	}

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.toml"),
			"data":   predict.Dirs("*"),
			"store":  predict.Set{"jsonl", "sqlite"},
			"u":      users,
		},
		Sub: map[string]*complete.Command{
			"register": {Flags: map[string]complete.Predictor{
				"n": predict.Something,
				"e": predict.Something,
				"c": predict.Something,
			}},
			"login":  {Flags: map[string]complete.Predictor{"n": users}},
			"logout": {},
			"whoami": {},
			"market": {Flags: map[string]complete.Predictor{
				"watch":  predict.Nothing,
				"format": formats,
				"q":      predict.Something,
			}},
			"buy":         {Flags: trade},
			"sell":        {Flags: trade},
			"holding":     {Flags: report},
			"performance": {Flags: report},
			"tx": {Flags: map[string]complete.Predictor{
				"head":   predict.Something,
				"tail":   predict.Something,
				"format": formats,
				"q":      predict.Something,
			}},
			"topic": {Args: complete.PredictFunc(topicNames)},
		},
	}
}

// topicNames predicts the documentation topics.
func topicNames(prefix string) []string {
	names, err := docs.List()
	if err != nil {
		return nil
	}
	return names
}

// listedSymbols predicts the configured symbols.
func listedSymbols(prefix string) []string {
	cfg, err := loadConfig()
	if err != nil {
		return nil
	}
	listing, err := securities(cfg)
	if err != nil {
		return nil
	}
	symbols := make([]string, 0, len(listing))
	for _, l := range listing {
		symbols = append(symbols, l.Symbol)
	}
	return symbols
}

// userNames predicts the registered display names.
func userNames(prefix string) []string {
	cfg, err := loadConfig()
	if err != nil {
		return nil
	}
	st, err := store.Open(cfg, zerolog.Nop())
	if err != nil {
		return nil
	}
	defer st.Close()
	state, err := st.Load(context.Background())
	if err != nil {
		return nil
	}
	return state.Registry.Names()
}
