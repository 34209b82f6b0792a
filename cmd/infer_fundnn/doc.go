// Package main provides the FunDNN prediction program. It loads a trained
// network checkpoint and writes the predicted GECs of every gene in a node
// feature CSV to <save><name>_pre_GECs.csv.
package main
