/*
Package domain contains the core output model of the cnftree transformer.

It defines the labeled tree produced for every CNF document, the reserved operator
and marker labels, the error taxonomy shared by every layer, and the lifecycle
events used for observability. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Node: a labeled tree node; operators, markers, symbols and variables share one label space.
  - Reserved labels: And (&), Or (|), Not (~), ForAll (!) and Exists (?).
  - SyntaxError, IOError, CyclicIncludeError: the failure kinds of a transformation.
  - LifecycleHooks: callbacks around documents and includes.
*/
package domain
