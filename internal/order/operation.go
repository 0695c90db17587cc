package order

import (
	"fmt"
	"strings"
)

// Operation identifies one of the order API calls the benchmark can drive.
type Operation string

const (
	OperationQuery  Operation = "get-order"
	OperationCreate Operation = "create-order"
	OperationPay    Operation = "pay-order"
	OperationDelete Operation = "delete-order"
)

var operationAliases = map[string]Operation{
	"get-order":    OperationQuery,
	"query":        OperationQuery,
	"create-order": OperationCreate,
	"create":       OperationCreate,
	"pay-order":    OperationPay,
	"pay":          OperationPay,
	"delete-order": OperationDelete,
	"delete":       OperationDelete,
}

// Operations lists the supported operations in CLI order.
func Operations() []Operation {
	return []Operation{OperationQuery, OperationCreate, OperationPay, OperationDelete}
}

// ParseOperation resolves a command name to an Operation.
func ParseOperation(name string) (Operation, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if op, ok := operationAliases[key]; ok {
		return op, nil
	}
	return "", fmt.Errorf("unknown command: %s", name)
}

// Valid reports whether o is one of the supported operations.
func (o Operation) Valid() bool {
	switch o {
	case OperationQuery, OperationCreate, OperationPay, OperationDelete:
		return true
	default:
		return false
	}
}

// Label is the human readable name used in statistics lines.
func (o Operation) Label() string {
	switch o {
	case OperationQuery:
		return "query order"
	case OperationCreate:
		return "create order"
	case OperationPay:
		return "pay order"
	case OperationDelete:
		return "delete order"
	default:
		return string(o)
	}
}

func (o Operation) String() string {
	return string(o)
}
