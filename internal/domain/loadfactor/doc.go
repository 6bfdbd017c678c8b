// Package loadfactor classifies station availability against baseline demand.
//
// A single numeric classification (Classify) feeds two presentation mappings:
// the rider view, where a surplus is good news, and the operator view, where
// both tails of the distribution need a rebalancing crew.
package loadfactor
