package generator

import (
	"fmt"

	"github.com/gnana997/styco/pkg/jsx"
	"github.com/gnana997/styco/pkg/manifest"
)

// ImportStatement renders the import that binds `styled` from lib, without
// a trailing newline:
//
//	import styled from "styled-components";
//	import { styled } from "linaria/react";
func ImportStatement(lib manifest.Library) string {
	if lib.DefaultImport {
		return fmt.Sprintf("import %s from %s;", jsx.StyledIdentifier, quote(lib.Module()))
	}
	return fmt.Sprintf("import { %s } from %s;", jsx.StyledIdentifier, quote(lib.Module()))
}
