package driver

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/bawdo/sqldom/sqlerr"
)

// ConnectionHandler observes connection opening. Handlers are configured
// by type; every Connection gets fresh instances.
type ConnectionHandler interface {
	// ConnectionOpening runs before the connection pool is created and
	// may adjust the connection info.
	ConnectionOpening(ctx context.Context, info *ConnectionInfo) error
	// ConnectionOpened runs after initialization SQL has been executed.
	ConnectionOpened(ctx context.Context, db *sql.DB) error
}

var handlerType = reflect.TypeFor[ConnectionHandler]()

type handlerFactory func() ConnectionHandler

var (
	handlerFactories sync.Map // reflect.Type -> handlerFactory
	handlerGroup     singleflight.Group
)

// HandlerType returns the reflect.Type to configure for handler type T.
func HandlerType[T ConnectionHandler]() reflect.Type { return reflect.TypeFor[T]() }

// factoryFor returns the cached factory of a handler type, building it on
// first use. Types must be pointers to structs implementing
// ConnectionHandler; the zero struct is the new instance.
func factoryFor(t reflect.Type) (handlerFactory, error) {
	if t == nil {
		return nil, sqlerr.Argument("handler type", "must not be nil")
	}
	if f, ok := handlerFactories.Load(t); ok {
		return f.(handlerFactory), nil
	}
	v, err, _ := handlerGroup.Do(typeKey(t), func() (any, error) {
		if f, ok := handlerFactories.Load(t); ok {
			return f, nil
		}
		if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct || !t.Implements(handlerType) {
			return nil, sqlerr.NotSupported(fmt.Sprintf("connection handler %s without zero-value constructor", t))
		}
		elem := t.Elem()
		f := handlerFactory(func() ConnectionHandler {
			return reflect.New(elem).Interface().(ConnectionHandler)
		})
		actual, _ := handlerFactories.LoadOrStore(t, f)
		return actual, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(handlerFactory), nil
}

// typeKey identifies t by its runtime type descriptor. Every type has
// exactly one, while t.String() is shared by same-named types of
// different packages or functions.
func typeKey(t reflect.Type) string { return fmt.Sprintf("%p", t) }

// CreateConnectionHandlers returns one new handler per configured type.
func CreateConnectionHandlers(types []reflect.Type) ([]ConnectionHandler, error) {
	handlers := make([]ConnectionHandler, 0, len(types))
	for _, t := range types {
		f, err := factoryFor(t)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, f())
	}
	return handlers, nil
}
