// Package docker runs project builds inside a container so the decomp
// toolchain (arm-none-eabi-gcc, agbcc) does not need to be installed on
// the host. The checkout root is bind-mounted into the container and
// compiler diagnostics are parsed from the combined make output.
package docker
