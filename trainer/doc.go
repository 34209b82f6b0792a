// Package trainer drives FunDNN training: one pass over the training
// batches with optimizer updates, one pass over the validation batches,
// best-model selection by validation loss, and the final evaluation on
// held-out data.
package trainer
