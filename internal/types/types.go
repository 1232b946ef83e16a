// README: Shared identifier type.
package types

type ID string
