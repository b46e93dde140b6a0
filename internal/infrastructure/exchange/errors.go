package exchange

import "errors"

var errEmptyListing = errors.New("empty instrument listing")
