package config

import (
	"errors"
	"fmt"
	"path/filepath"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vodhub/vodhub/constant"
	"github.com/vodhub/vodhub/where"
)

// ErrUnknownKey is returned for keys that are not registered in Default.
var ErrUnknownKey = errors.New("unknown key")

// Lookup returns the field registered under k.
// The error for an unknown key names the closest registered one.
func Lookup(k string) (Field, error) {
	if f, ok := Default[k]; ok {
		return f, nil
	}

	closest := lo.MinBy(lo.Keys(Default), func(a, b string) bool {
		return levenshtein.Distance(k, a) < levenshtein.Distance(k, b)
	})
	return Field{}, fmt.Errorf("%w %s, did you mean %s?", ErrUnknownKey, k, closest)
}

// Path is the config file read by Setup.
func Path() string {
	return filepath.Join(where.Config(), constant.App+".toml")
}

// Set parses raw as the type of k's default, applies it and writes the file.
func Set(k string, raw []string) (any, error) {
	f, err := Lookup(k)
	if err != nil {
		return nil, err
	}

	v, err := f.Parse(raw)
	if err != nil {
		return nil, err
	}

	viper.Set(k, v)
	return v, Write()
}

// Reset restores the given keys, or every key when none is given, and writes the file.
func Reset(keys ...string) error {
	if len(keys) == 0 {
		keys = lo.Keys(Default)
	}

	for _, k := range keys {
		f, err := Lookup(k)
		if err != nil {
			return err
		}
		viper.Set(k, f.Value)
	}

	return Write()
}

// Write persists the current settings, creating the file when there is none.
func Write() error {
	err := viper.WriteConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return viper.SafeWriteConfig()
	}
	return err
}
