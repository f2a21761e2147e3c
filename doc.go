// Package protoparquet converts Parquet records back into protobuf messages.
//
// It implements the read side of the Parquet/Protobuf mapping: a converter
// tree, one node per Parquet schema field, that a Parquet record assembly
// pipeline drives through the GroupConverter/ValueConverter protocol. Each
// completed record occurrence is delivered as a fully populated
// proto.Message.
//
// The entry point is RecordConverter. The Parquet schema is described with
// github.com/apache/arrow/go/v15/parquet/schema nodes; message types are
// mutated reflectively, so both generated and dynamicpb messages work.
package protoparquet
