/*
klattplay reads a text file of frame parameters and renders them through the
klatt synthesis core to a WAV file.

This program is free software; you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation; either version 2, or (at your option)
any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
GNU General Public License for more details.
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	klatt "github.com/dengopaiv/Manatu-speech-synthesizer-and-phoneme-editor"
)

func main() {
	inPath := flag.String("in", "example.par", "frame parameter file to read")
	outPath := flag.String("out", "klattplay_output.wav", "WAV file to write")
	sampleRate := flag.Int("samplerate", 16000, "output sample rate in Hz")
	tailMs := flag.Int("tail", 250, "silent tail rendered after the last frame, in ms, to let resonators decay")
	flag.Parse()

	in, err := os.Open(*inPath)
	if err != nil {
		log.Fatal(err)
	}
	defer in.Close()

	engine := klatt.NewEngine(*sampleRate)
	scheduler := engine.Scheduler()

	totalSamples := 0
	userIndex := 0
	for {
		minSamples, fadeSamples, frame, err := readFrame(in)
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal(err)
		}

		scheduler.QueueFrame(&frame, minSamples, fadeSamples, userIndex, false)
		totalSamples += minSamples
		userIndex++
	}

	totalSamples += *sampleRate * *tailMs / 1000

	samples := make([]int16, totalSamples)
	written := engine.Generate(totalSamples, samples)

	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()

	data := make([]int, written)
	for i, s := range samples[:written] {
		data[i] = int(s)
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  *sampleRate,
		},
		Data:           data,
		SourceBitDepth: 16,
	}

	encoder := wav.NewEncoder(out, *sampleRate, 16, 1, 1)
	if err := encoder.Write(buf); err != nil {
		log.Fatal(fmt.Errorf("writing wav: %w", err))
	}
	if err := encoder.Close(); err != nil {
		log.Fatal(fmt.Errorf("closing wav encoder: %w", err))
	}
}

// readFrame reads one line of the form "minNumSamples numFadeSamples
// <76 frame fields, in Frame's declaration order>". A line whose fields are
// all zero after the durations still represents a real (silent) frame, not
// end of input; only io.EOF ends the stream.
func readFrame(reader io.Reader) (minSamples, fadeSamples int, frame klatt.Frame, err error) {
	_, err = fmt.Fscanf(reader, strings.Repeat("%v ", 77)+"%v\n",
		&minSamples, &fadeSamples,
		&frame.VoicePitch, &frame.EndVoicePitch, &frame.MidVoicePitch, &frame.VoicePitchOffset,
		&frame.VibratoSpeed, &frame.VoiceAmplitude, &frame.VoiceTurbulenceAmplitude,
		&frame.AspirationAmplitude, &frame.AspirationFilterFreq, &frame.AspirationFilterBw,
		&frame.SinusoidalVoicingAmplitude,
		&frame.LFRd, &frame.SpectralTilt, &frame.Flutter, &frame.Diplophonia,
		&frame.FTPFreq1, &frame.FTPBw1, &frame.FTZFreq1, &frame.FTZBw1,
		&frame.FTPFreq2, &frame.FTPBw2, &frame.FTZFreq2, &frame.FTZBw2,
		&frame.DeltaF1, &frame.DeltaB1,
		&frame.CF1, &frame.CF2, &frame.CF3, &frame.CF4, &frame.CF5, &frame.CF6,
		&frame.CB1, &frame.CB2, &frame.CB3, &frame.CB4, &frame.CB5, &frame.CB6,
		&frame.CFN0, &frame.CBN0, &frame.CFNP, &frame.CBNP, &frame.CANP,
		&frame.PF1, &frame.PF2, &frame.PF3, &frame.PF4, &frame.PF5, &frame.PF6,
		&frame.PB1, &frame.PB2, &frame.PB3, &frame.PB4, &frame.PB5, &frame.PB6,
		&frame.PA1, &frame.PA2, &frame.PA3, &frame.PA4, &frame.PA5, &frame.PA6,
		&frame.ParallelAntiFreq, &frame.ParallelAntiBw, &frame.ParallelBypass, &frame.ParallelVoiceMix,
		&frame.FricationAmplitude, &frame.NoiseFilterFreq, &frame.NoiseFilterBw,
		&frame.BurstAmplitude, &frame.BurstDuration, &frame.BurstFilterFreq, &frame.BurstFilterBw, &frame.BurstNoiseColor,
		&frame.TrillRate, &frame.TrillDepth,
		&frame.PreFormantGain, &frame.OutputGain,
	)
	return minSamples, fadeSamples, frame, err
}
