// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	errExpectedPointerToStruct = errors.New("expected a pointer to a struct")
	errUnsupportedFieldType    = errors.New("unsupported field type")
)

var durationType = reflect.TypeFor[time.Duration]()

// envTag is a parsed `env:"NAME[,overwrite]"` struct tag.
//
// Without overwrite, a variable only fills a field that is still zero, so a
// value from the YAML file wins.
type envTag struct {
	name      string
	overwrite bool
}

func parseEnvTag(raw string) (envTag, bool) {
	name, opts, _ := strings.Cut(raw, ",")
	if name == "" {
		return envTag{}, false
	}

	return envTag{name: name, overwrite: opts == "overwrite"}, true
}

// readEnv fills the tagged fields of the struct dst points to from the
// environment. Untagged struct fields are descended into.
func readEnv(dst any) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w, got %T", errExpectedPointerToStruct, dst)
	}

	return readEnvStruct(v.Elem())
}

func readEnvStruct(v reflect.Value) error {
	t := v.Type()

	for i := range t.NumField() {
		sf := t.Field(i)
		field := v.Field(i)

		if !sf.IsExported() || !field.CanSet() {
			continue
		}

		tag, ok := parseEnvTag(sf.Tag.Get("env"))
		if !ok {
			if field.Kind() == reflect.Struct {
				if err := readEnvStruct(field); err != nil {
					return err
				}
			}

			continue
		}

		raw, set := os.LookupEnv(tag.name)
		if !set || (!tag.overwrite && !field.IsZero()) {
			continue
		}

		value, err := parseEnvValue(field.Type(), raw)
		if err != nil {
			return fmt.Errorf("%s (%s=%q): %w", sf.Name, tag.name, raw, err)
		}

		field.Set(value)
	}

	return nil
}

// parseEnvValue converts raw into a value of type t.
//
// Lists are comma separated with blank entries dropped, which is why cruise
// line entries separate their own parts with ':'.
func parseEnvValue(t reflect.Type, raw string) (reflect.Value, error) {
	out := reflect.New(t).Elem()

	switch {
	case t == durationType:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return out, err
		}

		out.SetInt(int64(d))

	case t.Kind() == reflect.String:
		out.SetString(raw)

	case t.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return out, err
		}

		out.SetBool(b)

	case out.CanInt():
		n, err := strconv.ParseInt(raw, 10, t.Bits())
		if err != nil {
			return out, err
		}

		out.SetInt(n)

	case out.CanFloat():
		f, err := strconv.ParseFloat(raw, t.Bits())
		if err != nil {
			return out, err
		}

		out.SetFloat(f)

	case t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.String:
		items := make([]string, 0, strings.Count(raw, ",")+1)

		for item := range strings.SplitSeq(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}

		out.Set(reflect.ValueOf(items).Convert(t))

	default:
		return out, fmt.Errorf("%w: %s", errUnsupportedFieldType, t)
	}

	return out, nil
}
