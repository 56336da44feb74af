// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package isa decodes and executes RUN1920 instruction words.
//
// Every instruction is a single 32-bit word:
//
//	31..28 op   27..24 rd   23..20 ra   19 I   18..4 simm15 (I=1)
//	                                           7..4  rb     (I=0)
//	3..0 cond
//
// MOVHI uses bits 23..4 as a 20-bit immediate.
package isa
