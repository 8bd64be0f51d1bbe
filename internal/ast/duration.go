package ast

import "strconv"

// Duration is an exact fraction of the unit note length.
type Duration struct {
	Num uint32
	Den uint32
}

// Value evaluates the fraction. It is meant for threshold checks only.
func (d Duration) Value() float64 {
	if d.Den == 0 {
		return 0
	}
	return float64(d.Num) / float64(d.Den)
}

func (d Duration) String() string {
	return strconv.FormatUint(uint64(d.Num), 10) + "/" + strconv.FormatUint(uint64(d.Den), 10)
}
