/*
Package klatt is a real-time KLSYN88-style formant speech synthesizer.

Version: 1.0

This is a grandchild of Dennis Klatt's cascade-parallel formant synthesizer.
Its direct ancestor is Jon Iles's and Nick Ing-Simmons's 1994 C port; this
version replaces the fixed-coefficient difference-equation resonator with a
zero-delay-feedback state variable filter so that formant parameters can be
swept every sample without zipper noise, and replaces the impulse/natural/
sampled glottal switch with an oversampled Liljencrants-Fant model.

This package implements the synthesis core only: a frame scheduler that
accepts time-stamped parameter frames and interpolates between them, and a
per-sample signal graph (glottal source, spectral conditioning, cascade and
parallel formant paths, noise/burst generation, output limiting) that turns
the currently-interpolated frame into 16-bit PCM. Text parsing, phoneme
dictionaries, and duration/intonation planning are external collaborators
that produce frames and enqueue them; they are not part of this package.

This program is free software; you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation; either version 2, or (at your option)
any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
GNU General Public License for more details.
*/
package klatt
