// Package main provides the FunDNN training program. It reads a node feature
// CSV and a GECs CSV, trains the network on the genes present in both with
// the combined MSE and Pearson loss, keeps the epoch with the lowest
// validation loss, evaluates it on the held out test genes and writes the
// predicted GECs of every gene in the feature file.
//
// Outputs under --save:
//
//	<name>_FunDNN.json.zlib   best network
//	<name>_history.csv        per-epoch losses
//	<name>_loss.png           train and valid loss curves
//	<name>_pcc.png            histogram of the per-gene test correlation
//	<name>_pre_GECs.csv       predictions
package main
