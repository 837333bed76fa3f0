package main

import (
	"os"
	"reflect"
	"strings"

	musgen "github.com/mus-format/musgen-go/mus"
	genops "github.com/mus-format/musgen-go/options/generate"
	structops "github.com/mus-format/musgen-go/options/struct"
	typeops "github.com/mus-format/musgen-go/options/type"
	"github.com/poiesic/vestige/core"
)

// musgen regenerates core/records_mus.gen.go, the binary codecs for every
// record persisted in Badger.
func main() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	// Invoked through go:generate from the core package
	if strings.HasSuffix(cwd, "core") {
		if err := os.Chdir(".."); err != nil {
			panic(err)
		}
	}
	g, err := musgen.NewCodeGenerator(
		genops.WithPkgPath("github.com/poiesic/vestige/core"),
	)
	if err != nil {
		panic(err)
	}

	g.AddDefinedType(reflect.TypeFor[core.Digest]())

	// Timestamps keep microsecond precision
	micros := typeops.WithTimeUnit(typeops.Micro)

	// Digest, URL, Title, Body, Metadata, Timestamp, Version
	err = g.AddStruct(reflect.TypeFor[core.Document](),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(micros),
		structops.WithField())
	if err != nil {
		panic(err)
	}

	// ID, Digest, Type, Content, Metadata, Timestamp
	err = g.AddStruct(reflect.TypeFor[core.Output](),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(micros))
	if err != nil {
		panic(err)
	}

	bs, err := g.Generate()
	if err != nil {
		panic(err)
	}

	if err := os.WriteFile("./core/records_mus.gen.go", bs, 0644); err != nil {
		panic(err)
	}
}
