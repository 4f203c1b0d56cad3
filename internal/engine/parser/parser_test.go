// # internal/engine/parser/parser_test.go
package parser

import (
	"strings"
	"testing"
)

func TestPythonClassWithMethodsAndAttributes(t *testing.T) {
	source := `import os
from typing import List

class Repository:
    retries = 3

    def __init__(self, path):
        self.path = path

    def load(self):
        if self.path:
            return self.read_all()
        return []

def helper():
    return 1
`
	mod := Parse(source, ".py")

	if len(mod.Imports) != 2 {
		t.Fatalf("imports = %d, want 2", len(mod.Imports))
	}
	if mod.Imports[0].Target != "os" {
		t.Errorf("first import target = %q, want os", mod.Imports[0].Target)
	}
	if mod.Imports[1].Target != "typing" || !mod.Imports[1].IsFrom {
		t.Errorf("from-import not recognised: %+v", mod.Imports[1])
	}

	if len(mod.Classes) != 1 {
		t.Fatalf("classes = %d, want 1", len(mod.Classes))
	}
	cls := mod.Classes[0]
	if cls.Name != "Repository" {
		t.Errorf("class name = %q", cls.Name)
	}
	if len(cls.Methods) != 2 {
		t.Fatalf("methods = %d, want 2", len(cls.Methods))
	}
	if len(cls.Attributes) != 1 || cls.Attributes[0].Name != "retries" {
		t.Errorf("attributes = %+v", cls.Attributes)
	}
	if cls.Abstract {
		t.Error("concrete class marked abstract")
	}

	if len(mod.Functions) != 1 || mod.Functions[0].Name != "helper" {
		t.Fatalf("module functions = %+v", mod.Functions)
	}
}

func TestPythonIndentationEndsBody(t *testing.T) {
	source := `class A:
    def m(self):
        x = 1

class B:
    def n(self):
        y = 2
`
	mod := Parse(source, ".py")
	if len(mod.Classes) != 2 {
		t.Fatalf("classes = %d, want 2: the dedent must close the first body", len(mod.Classes))
	}
	if len(mod.Classes[0].Methods) != 1 || len(mod.Classes[1].Methods) != 1 {
		t.Errorf("method distribution wrong: %d and %d",
			len(mod.Classes[0].Methods), len(mod.Classes[1].Methods))
	}
}

func TestPythonAbstractDetection(t *testing.T) {
	source := `from abc import ABC, abstractmethod

class Store(ABC):
    @abstractmethod
    def get(self, key):
        pass

class Handler:
    @abstractmethod
    def handle(self):
        pass

    @abstractmethod
    def close(self):
        pass
`
	mod := Parse(source, ".py")
	if len(mod.Classes) != 2 {
		t.Fatalf("classes = %d, want 2", len(mod.Classes))
	}
	if !mod.Classes[0].Abstract {
		t.Error("ABC subclass not abstract")
	}
	// all methods abstract means abstract even without an ABC base
	if !mod.Classes[1].Abstract {
		t.Error("class with only abstract methods not abstract")
	}
}

func TestPythonMethodComplexityAndSelfAccess(t *testing.T) {
	source := `class C:
    def score(self, items):
        total = 0
        for item in items:
            if item > 0 and item < 100:
                total += self.weight
            else:
                total += self.fallback()
        return total
`
	mod := Parse(source, ".py")
	m := mod.Classes[0].Methods[0]
	// base 1 + for + if + and
	if m.Complexity != 4 {
		t.Errorf("complexity = %d, want 4", m.Complexity)
	}
	if !m.AccessedAttrs["weight"] {
		t.Errorf("accessed attrs = %v, want weight", m.AccessedAttrs)
	}
	if !m.CalledMethods["fallback"] {
		t.Errorf("called methods = %v, want fallback", m.CalledMethods)
	}
}

func TestLexicalIsolation(t *testing.T) {
	cases := []struct {
		ext    string
		source string
	}{
		{".py", "x = \"class Foo\"\ny = 'def bar'\n# class Baz\n"},
		{".js", "const x = \"class Foo\";\n// class Bar\n/* class Baz */\n"},
		{".java", "String s = \"class Foo\"; // class Bar\n"},
	}
	for _, tc := range cases {
		mod := Parse(tc.source, tc.ext)
		if len(mod.Classes) != 0 {
			t.Errorf("%s: declaration keyword inside string/comment produced %d classes",
				tc.ext, len(mod.Classes))
		}
		if len(mod.Functions) != 0 {
			t.Errorf("%s: functions = %d, want 0", tc.ext, len(mod.Functions))
		}
	}
}

func TestCountFidelity(t *testing.T) {
	var b strings.Builder
	for _, name := range []string{"Alpha", "Beta", "Gamma", "Delta"} {
		b.WriteString("class " + name + ":\n    pass\n\n")
	}
	mod := Parse(b.String(), ".py")
	if len(mod.Classes) != 4 {
		t.Fatalf("classes = %d, want 4", len(mod.Classes))
	}
}

func TestJavaClassAndInterface(t *testing.T) {
	source := `package com.example.app;

import java.util.List;
import com.example.util.*;

public abstract class BaseHandler extends Object implements Runnable {
    private int count;
    protected static final String NAME = "base";

    public abstract void handle();

    public int getCount() {
        if (count > 0) {
            return count;
        }
        return 0;
    }
}

public interface Closer {
    void close();
    default void closeQuietly() { close(); }
}
`
	mod := Parse(source, ".java")

	if mod.Name != "com.example.app" {
		t.Errorf("package = %q", mod.Name)
	}
	if len(mod.Imports) != 2 {
		t.Fatalf("imports = %d, want 2", len(mod.Imports))
	}
	if mod.Imports[1].Names[0] != "*" {
		t.Errorf("wildcard import names = %v", mod.Imports[1].Names)
	}

	if len(mod.Classes) != 1 {
		t.Fatalf("classes = %d, want 1", len(mod.Classes))
	}
	cls := mod.Classes[0]
	if !cls.Abstract {
		t.Error("abstract modifier not carried")
	}
	if len(cls.Bases) != 2 {
		t.Errorf("bases = %v, want [Object Runnable]", cls.Bases)
	}
	if len(cls.Methods) != 2 {
		t.Fatalf("methods = %d, want 2", len(cls.Methods))
	}
	if !cls.Methods[0].Abstract || cls.Methods[0].Name != "handle" {
		t.Errorf("abstract method = %+v", cls.Methods[0])
	}
	if len(cls.Attributes) != 2 {
		t.Errorf("attributes = %d, want 2", len(cls.Attributes))
	}

	if len(mod.Interfaces) != 1 {
		t.Fatalf("interfaces = %d, want 1", len(mod.Interfaces))
	}
	iface := mod.Interfaces[0]
	if len(iface.Methods) != 2 {
		t.Fatalf("interface methods = %d, want 2", len(iface.Methods))
	}
	if !iface.Methods[0].Abstract {
		t.Error("body-less interface method not abstract")
	}
	if iface.Methods[1].Abstract {
		t.Error("default method wrongly abstract")
	}
}

func TestTypeScriptInterfaceAndAbstractClass(t *testing.T) {
	source := `import { Component } from '@angular/core';
import * as fs from 'fs';

interface Shape {
    area(): number;
    name: string;
}

abstract class Figure implements Shape {
    name: string;

    abstract area(): number;

    describe(): string {
        return this.name;
    }
}
`
	mod := Parse(source, ".ts")

	if len(mod.Imports) != 2 {
		t.Fatalf("imports = %d, want 2", len(mod.Imports))
	}
	if mod.Imports[0].Target != "@angular/core" {
		t.Errorf("import target = %q", mod.Imports[0].Target)
	}

	if len(mod.Interfaces) != 1 || mod.Interfaces[0].Name != "Shape" {
		t.Fatalf("interfaces = %+v", mod.Interfaces)
	}
	if len(mod.Interfaces[0].Methods) != 1 {
		t.Errorf("interface methods = %d, want 1 (fields excluded)", len(mod.Interfaces[0].Methods))
	}

	if len(mod.Classes) != 1 {
		t.Fatalf("classes = %d, want 1", len(mod.Classes))
	}
	cls := mod.Classes[0]
	if !cls.Abstract {
		t.Error("abstract class not marked")
	}
	if len(cls.Methods) != 2 {
		t.Errorf("methods = %d, want 2", len(cls.Methods))
	}
	if len(cls.Attributes) != 1 {
		t.Errorf("attributes = %d, want 1", len(cls.Attributes))
	}
}

func TestJavaScriptRequireAndClass(t *testing.T) {
	source := `const path = require('path');

class Server {
    constructor(port) {
        this.port = port;
    }

    start() {
        if (this.port) {
            this.listen();
        }
    }
}
`
	mod := Parse(source, ".js")
	if len(mod.Imports) != 1 || mod.Imports[0].Target != "path" {
		t.Fatalf("require import = %+v", mod.Imports)
	}
	if len(mod.Classes) != 1 {
		t.Fatalf("classes = %d", len(mod.Classes))
	}
	if len(mod.Classes[0].Methods) != 2 {
		t.Errorf("methods = %d, want constructor and start", len(mod.Classes[0].Methods))
	}
	start := mod.Classes[0].Methods[1]
	if !start.AccessedAttrs["port"] || !start.CalledMethods["listen"] {
		t.Errorf("body observations = %v / %v", start.AccessedAttrs, start.CalledMethods)
	}
}

func TestCppPureVirtualAndIncludes(t *testing.T) {
	source := `#include <vector>
#include "util/strings.h"

class Codec {
public:
    virtual ~Codec() {}
    virtual int encode(int value) = 0;
    int version() { return 1; }
private:
    int mode;
};
`
	mod := Parse(source, ".cpp")

	if len(mod.Imports) != 2 {
		t.Fatalf("includes = %d, want 2", len(mod.Imports))
	}
	if mod.Imports[0].Names[0] != "vector" || mod.Imports[1].Names[0] != "strings" {
		t.Errorf("include names = %v / %v", mod.Imports[0].Names, mod.Imports[1].Names)
	}

	if len(mod.Classes) != 1 {
		t.Fatalf("classes = %d", len(mod.Classes))
	}
	cls := mod.Classes[0]
	if !cls.Abstract {
		t.Error("pure virtual did not mark class abstract")
	}
	found := false
	for _, m := range cls.Methods {
		if m.Name == "encode" {
			found = true
			if !m.Abstract {
				t.Error("encode not abstract")
			}
		}
	}
	if !found {
		t.Fatalf("encode not found in %+v", cls.Methods)
	}
	if len(cls.Attributes) != 1 || cls.Attributes[0].Visibility != "private" {
		t.Errorf("attributes = %+v", cls.Attributes)
	}
}

func TestGoStructWithReceiverMethods(t *testing.T) {
	source := `package cache

import (
	"sync"
	"time"
)

type Entry struct {
	Key     string
	Value   []byte
	expires time.Time
}

type Cache struct {
	mu      sync.Mutex
	entries map[string]Entry
}

func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e, ok
}

func (c *Cache) Put(key string, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
}

func New() *Cache {
	return &Cache{entries: make(map[string]Entry)}
}
`
	mod := Parse(source, ".go")

	if mod.Name != "cache" {
		t.Errorf("package = %q", mod.Name)
	}
	if len(mod.Imports) != 2 {
		t.Fatalf("imports = %d, want 2", len(mod.Imports))
	}
	if len(mod.Classes) != 2 {
		t.Fatalf("structs = %d, want 2", len(mod.Classes))
	}

	found := false
	for _, cls := range mod.Classes {
		if cls.Name == "Cache" {
			found = true
			if len(cls.Methods) != 2 {
				t.Errorf("Cache methods = %d, want 2", len(cls.Methods))
			}
		}
	}
	if !found {
		t.Fatal("Cache struct not found")
	}
	if len(mod.Functions) != 1 || mod.Functions[0].Name != "New" {
		t.Errorf("module functions = %+v", mod.Functions)
	}
}

func TestRustTraitAndImpl(t *testing.T) {
	source := `use std::collections::{HashMap, HashSet};
use serde::Serialize;

pub struct Index {
    entries: HashMap,
}

pub trait Store {
    fn get(&self, key: u64) -> u64;
    fn len(&self) -> usize { 0 }
}

impl Store for Index {
    fn get(&self, key: u64) -> u64 {
        if key > 0 { key } else { 0 }
    }
}

impl Index {
    pub fn new() -> Index {
        Index { entries: HashMap::new() }
    }
}
`
	mod := Parse(source, ".rs")

	if len(mod.Imports) != 2 {
		t.Fatalf("imports = %d, want 2", len(mod.Imports))
	}
	if got := mod.Imports[0].Names; len(got) != 2 {
		t.Errorf("grouped use names = %v", got)
	}

	if len(mod.Classes) != 1 {
		t.Fatalf("structs = %d", len(mod.Classes))
	}
	cls := mod.Classes[0]
	// get from the trait impl plus new from the inherent impl
	if len(cls.Methods) != 2 {
		t.Errorf("methods on Index = %d, want 2", len(cls.Methods))
	}

	if len(mod.Interfaces) != 1 {
		t.Fatalf("traits = %d", len(mod.Interfaces))
	}
	trait := mod.Interfaces[0]
	if len(trait.Methods) != 2 {
		t.Fatalf("trait methods = %d", len(trait.Methods))
	}
	if !trait.Methods[0].Abstract {
		t.Error("required trait method not abstract")
	}
	if trait.Methods[1].Abstract {
		t.Error("default trait method wrongly abstract")
	}
}

func TestSwiftClassProtocolExtension(t *testing.T) {
	source := `import Foundation

protocol Greeter {
    func greet() -> String
}

class Person: Greeter {
    var name: String = ""
    private let id: Int = 0

    func greet() -> String {
        return name
    }
}

extension Person {
    func describe() -> String {
        return greet()
    }
}
`
	mod := Parse(source, ".swift")

	if len(mod.Imports) != 1 || mod.Imports[0].Target != "Foundation" {
		t.Fatalf("imports = %+v", mod.Imports)
	}
	if len(mod.Interfaces) != 1 || len(mod.Interfaces[0].Methods) != 1 {
		t.Fatalf("protocols = %+v", mod.Interfaces)
	}
	if !mod.Interfaces[0].Methods[0].Abstract {
		t.Error("protocol requirement not abstract")
	}

	if len(mod.Classes) != 1 {
		t.Fatalf("classes = %d", len(mod.Classes))
	}
	cls := mod.Classes[0]
	// greet from the declaration plus describe from the extension
	if len(cls.Methods) != 2 {
		t.Errorf("methods = %d, want 2", len(cls.Methods))
	}
	if len(cls.Attributes) != 2 {
		t.Errorf("attributes = %d, want 2", len(cls.Attributes))
	}
	if cls.Attributes[1].Visibility != "private" {
		t.Errorf("private let visibility = %q", cls.Attributes[1].Visibility)
	}
}

func TestTruncatedBodyClosesAtEOF(t *testing.T) {
	source := "class Broken {\n    void run() {\n        if (true) {\n"
	mod := Parse(source, ".java")
	if len(mod.Classes) != 1 {
		t.Fatalf("truncated class lost: %d classes", len(mod.Classes))
	}
	if len(mod.Classes[0].Methods) != 1 {
		t.Errorf("methods = %d, want 1", len(mod.Classes[0].Methods))
	}
}

func TestUnknownExtensionUsesGenericScan(t *testing.T) {
	source := "class Thing {\n  int x;\n};\n"
	mod := Parse(source, ".weird")
	if len(mod.Classes) != 1 {
		t.Fatalf("generic fallback found %d classes, want 1", len(mod.Classes))
	}
}
