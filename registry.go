package veil

import (
	"reflect"
	"sync"
)

var (
	shapeRegistry   = make(map[reflect.Type]*Shape)
	shapeRegistryMu sync.RWMutex
)

// ShapeOf returns a cached Shape for T, scanning struct tags on first use.
// Scanning is a startup cost; every later call for the same type returns the
// same immutable Shape.
func ShapeOf[T any]() (*Shape, error) {
	typ := reflect.TypeFor[T]()

	// Fast path: read-lock cache check
	shapeRegistryMu.RLock()
	if cached, ok := shapeRegistry[typ]; ok {
		shapeRegistryMu.RUnlock()
		return cached, nil
	}
	shapeRegistryMu.RUnlock()

	// Slow path: build and cache with write-lock
	shapeRegistryMu.Lock()
	defer shapeRegistryMu.Unlock()

	// Double-check pattern
	if cached, ok := shapeRegistry[typ]; ok {
		return cached, nil
	}

	shape, err := ScanShape[T]()
	if err != nil {
		return nil, err
	}

	shapeRegistry[typ] = shape
	return shape, nil
}

// MustShapeOf is ShapeOf that panics on a tag error. Intended for package
// variable declarations where the shape is fixed at compile time.
func MustShapeOf[T any]() *Shape {
	shape, err := ShapeOf[T]()
	if err != nil {
		panic(err)
	}
	return shape
}

// ResetShapes clears the shape registry.
// This is primarily useful for test isolation.
func ResetShapes() {
	shapeRegistryMu.Lock()
	defer shapeRegistryMu.Unlock()
	shapeRegistry = make(map[reflect.Type]*Shape)
}
